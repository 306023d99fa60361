package database

import (
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.MenuItemCategory{},
		&models.MenuItem{},
		&models.InventoryItemCategory{},
		&models.InventoryItem{},
		&models.Component{},
		&models.Tab{},
		&models.Purchase{},
		&models.LedgerEvent{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedDemo mengisi data contoh. Aman dijalankan berulang kali.
func SeedDemo(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		drinks := models.MenuItemCategory{Name: "Drinks"}
		if err := tx.Where(models.MenuItemCategory{Name: drinks.Name}).FirstOrCreate(&drinks).Error; err != nil {
			return err
		}
		beer := models.InventoryItemCategory{Name: "Beer"}
		if err := tx.Where(models.InventoryItemCategory{Name: beer.Name}).FirstOrCreate(&beer).Error; err != nil {
			return err
		}

		duff := models.MenuItem{Name: "Duff Beer", CategoryID: drinks.ID, Price: decimal.NewFromInt(5)}
		if err := tx.Where(models.MenuItem{Name: duff.Name}).FirstOrCreate(&duff).Error; err != nil {
			return err
		}
		keg := models.InventoryItem{
			Name:          "Duff Keg",
			CategoryID:    beer.ID,
			Stock:         decimal.NewFromInt(640),
			Cost:          decimal.RequireFromString("0.75"),
			ReorderPoint:  128,
			ReorderAmount: 640,
		}
		if err := tx.Where(models.InventoryItem{Name: keg.Name}).FirstOrCreate(&keg).Error; err != nil {
			return err
		}

		pint := models.Component{ItemID: duff.ID, IngredientID: keg.ID, Amount: decimal.NewFromInt(16)}
		if err := tx.Where(models.Component{ItemID: duff.ID, IngredientID: keg.ID}).FirstOrCreate(&pint).Error; err != nil {
			return err
		}

		thanos := models.Customer{LastName: "Thanos", Planet: "Titan"}
		if err := tx.Where(models.Customer{LastName: thanos.LastName}).FirstOrCreate(&thanos).Error; err != nil {
			return err
		}

		utils.InfoLogger.Println("Demo data seeded.")
		return nil
	})
}
