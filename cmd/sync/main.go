package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/time/rate"

	"github.com/gaolamthuy/kiotviet-sync/internal/buildinfo"
	"github.com/gaolamthuy/kiotviet-sync/internal/config"
	"github.com/gaolamthuy/kiotviet-sync/internal/database"
	"github.com/gaolamthuy/kiotviet-sync/internal/kiotviet"
	"github.com/gaolamthuy/kiotviet-sync/internal/models"
	"github.com/gaolamthuy/kiotviet-sync/internal/store"
	"github.com/gaolamthuy/kiotviet-sync/internal/syncer"
)

func main() {
	products := flag.Bool("products", false, "run a full product sync")
	customers := flag.Bool("customers", false, "run a full customer sync")
	year := flag.Int("year", 0, "clone invoices for this year")
	month := flag.Int("month", 0, "with -year, clone only this month (1-12)")
	migrate := flag.Bool("migrate", false, "run schema auto-migration before syncing")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Summary())
		return
	}

	log.Printf("🚀 kiotviet-sync %s", buildinfo.Summary())

	if !*products && !*customers && *year == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *migrate {
		err := db.AutoMigrate(
			&models.SystemSetting{},
			&models.Product{},
			&models.Customer{},
			&models.Invoice{},
			&models.InvoiceDetail{},
			&models.InvoicePayment{},
		)
		if err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
	}

	st := store.New(db.DB, store.Config{
		BatchSize:    cfg.Sync.BatchSize,
		WriteLimiter: rate.NewLimiter(rate.Every(cfg.Sync.WriteDelay), 1),
	})
	client := kiotviet.NewClient(kiotviet.Config{
		BaseURL:        cfg.KiotViet.BaseURL,
		Retailer:       cfg.KiotViet.Retailer,
		PageLimiter:    rate.NewLimiter(rate.Every(cfg.Sync.PageDelay), 1),
		InvoiceLimiter: rate.NewLimiter(rate.Every(cfg.Sync.InvoiceDelay), 1),
	})
	svc := syncer.New(client, st)

	ctx := context.Background()

	if *products {
		n, err := svc.SyncProducts(ctx)
		if err != nil {
			log.Fatalf("Product sync failed: %v", err)
		}
		log.Printf("🎉 Product sync done: %d products", n)
	}

	if *customers {
		n, err := svc.SyncCustomers(ctx)
		if err != nil {
			log.Fatalf("Customer sync failed: %v", err)
		}
		log.Printf("🎉 Customer sync done: %d customers", n)
	}

	if *year != 0 {
		var res *syncer.CloneResult
		if *month != 0 {
			res, err = svc.CloneInvoicesForMonth(ctx, *year, *month)
		} else {
			res, err = svc.CloneInvoicesForYear(ctx, *year)
		}
		if err != nil {
			log.Fatalf("Invoice clone failed: %v", err)
		}
		log.Printf("🎉 Invoice clone done: %d saved, %d failed, %d errors recorded",
			res.Success, res.Failed, len(res.Errors))
	}
}
