package main

import (
	"context"
	"fmt"
	"log"

	"github.com/reviewpop/reviewpop-backend/config"
	"github.com/reviewpop/reviewpop-backend/internal/app/model"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/internal/db"
	"github.com/reviewpop/reviewpop-backend/pkg/util"
)

// Seeds a demo account with one widget and a handful of reviews.
// Intended for local development and demos, not production.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	widgetRepo := repository.NewWidgetRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	const demoEmail = "demo@reviewpop.io"
	if existing, err := userRepo.FindByEmail(demoEmail); err == nil && existing != nil {
		fmt.Println("Demo account already exists, nothing to do.")
		return
	}

	hash, err := util.HashPassword("demo1234")
	if err != nil {
		log.Fatal("Failed to hash demo password:", err)
	}

	user := &model.User{
		Email:        demoEmail,
		PasswordHash: hash,
		Name:         "Demo Owner",
		Role:         model.RoleOwner,
	}
	if err := userRepo.Create(user); err != nil {
		log.Fatal("Failed to create demo user:", err)
	}

	business := &model.Business{
		UserID:   user.ID,
		Name:     "Demo Coffee Roasters",
		Email:    demoEmail,
		Industry: "Food & Beverage",
	}
	if err := businessRepo.Create(business); err != nil {
		log.Fatal("Failed to create demo business:", err)
	}

	code, err := util.GenerateWidgetCode()
	if err != nil {
		log.Fatal("Failed to generate widget code:", err)
	}
	widget := &model.Widget{
		BusinessID: business.ID,
		WidgetCode: code,
		Name:       "Homepage Widget",
	}
	widget.ApplyDefaults()
	if err := widgetRepo.Create(widget); err != nil {
		log.Fatal("Failed to create demo widget:", err)
	}

	seedReviews := []struct {
		name   string
		email  string
		rating int
		text   string
	}{
		{"Alice Kim", "alice@example.com", 5, "Best espresso in town, the staff remembered my order by day two."},
		{"Ben Ortega", "ben@example.com", 4, "Great beans, shipping took a little longer than expected."},
		{"Chloe Park", "chloe@example.com", 5, "The subscription box is worth every penny."},
		{"Dan Wu", "dan@example.com", 3, "Good coffee but the cafe gets crowded on weekends."},
	}

	for _, r := range seedReviews {
		review := &model.Review{
			BusinessID:    business.ID,
			WidgetID:      widget.ID,
			Title:         model.ReviewTitle(r.rating, r.name),
			Content:       r.text,
			Rating:        r.rating,
			CustomerName:  r.name,
			CustomerEmail: r.email,
			Status:        model.ReviewPublished,
			Source:        model.SourceWidget,
			IPAddress:     "127.0.0.1",
			UserAgent:     "seed",
		}
		if err := reviewRepo.Create(context.Background(), review); err != nil {
			log.Fatal("Failed to create demo review:", err)
		}
	}

	fmt.Println("Seeded demo account:")
	fmt.Printf("  email:    %s\n", demoEmail)
	fmt.Printf("  password: %s\n", "demo1234")
	fmt.Printf("  widget:   %s\n", widget.WidgetCode)
}
