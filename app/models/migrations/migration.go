package migrations

import (
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"gorm.io/gorm"
)

func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Store{},
		&models.Product{},
		&models.StoreProduct{},
		&models.Price{},
		&models.Contribution{},
		&models.Vote{},
		&models.StoreRating{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
