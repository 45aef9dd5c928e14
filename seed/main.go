package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"villastay/config"
	"villastay/database"
	villaRepo "villastay/database/repository/villa"
	"villastay/models"
	"villastay/services/villa"

	"go.mongodb.org/mongo-driver/bson"
)

var demoVillas = []models.VillaInput{
	{
		Name: "Ocean Breeze Cottage", Location: "Diani Beach, Kenya", PricePerNight: 250, MaxGuests: 4,
		Bedrooms: 2, Bathrooms: 2, Amenities: []string{"pool", "wifi", "beach access"},
		Description: "Two-bedroom cottage steps from the sand.",
	},
	{
		Name: "Sunset Point Villa", Location: "Watamu, Kenya", PricePerNight: 420, MaxGuests: 8,
		Bedrooms: 4, Bathrooms: 3, Amenities: []string{"pool", "chef", "wifi"},
		Description: "Cliff-top villa facing the evening sun.",
	},
	{
		Name: "Palm Grove Retreat", Location: "Lamu, Kenya", PricePerNight: 180, MaxGuests: 2,
		Bedrooms: 1, Bathrooms: 1, Amenities: []string{"garden", "wifi"},
	},
	{
		Name: "Coral Reef House", Location: "Kilifi, Kenya", PricePerNight: 300, MaxGuests: 6,
		Bedrooms: 3, Bathrooms: 2, Amenities: []string{"snorkelling", "kayaks"},
		Description: "Closed for renovation.",
	},
}

func main() {
	reset := flag.Bool("reset", false, "delete existing villas before seeding")
	flag.Parse()

	config.LoadConfig()
	database.InitDB()
	db := database.DB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer database.CloseDB(context.Background())

	if *reset {
		if _, err := db.Collection("villas").DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear villas collection: %v", err)
		}
	}

	repo := villaRepo.NewMongoVillaRepo(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create villa indexes: %v", err)
	}
	svc := villa.NewDefaultVillaService(repo, nil, config.AppConfig.Currency)

	inactive := false
	for i, input := range demoVillas {
		if i == len(demoVillas)-1 {
			input.IsActive = &inactive
		}
		v, err := svc.Create(ctx, input)
		if err != nil {
			log.Printf("Skipping %s: %v", input.Name, err)
			continue
		}
		fmt.Printf("Inserted villa %s (%s)\n", v.Name, v.ID)
	}
}
