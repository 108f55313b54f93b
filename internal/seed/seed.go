package seed

import (
	"github.com/asospay/rewards_platform/internal/logger"
	"github.com/asospay/rewards_platform/internal/models"
	"github.com/asospay/rewards_platform/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var demoProducts = []struct {
	Name  string
	Price string
	Image string
}{
	{"Oversized Denim Jacket", "85.00", "https://cdn.example.com/products/denim-jacket.jpg"},
	{"Canvas High Tops", "60.00", "https://cdn.example.com/products/high-tops.jpg"},
	{"Ribbed Knit Sweater", "45.50", "https://cdn.example.com/products/knit-sweater.jpg"},
	{"Leather Crossbody Bag", "120.00", "https://cdn.example.com/products/crossbody-bag.jpg"},
	{"Wide-Leg Trousers", "55.00", "https://cdn.example.com/products/wide-leg-trousers.jpg"},
	{"Graphic Print Tee", "25.00", "https://cdn.example.com/products/graphic-tee.jpg"},
	{"Pleated Midi Skirt", "48.00", "https://cdn.example.com/products/midi-skirt.jpg"},
	{"Chunky Chelsea Boots", "95.00", "https://cdn.example.com/products/chelsea-boots.jpg"},
	{"Quilted Puffer Vest", "70.00", "https://cdn.example.com/products/puffer-vest.jpg"},
	{"Linen Button-Up Shirt", "42.00", "https://cdn.example.com/products/linen-shirt.jpg"},
	{"Satin Slip Dress", "65.00", "https://cdn.example.com/products/slip-dress.jpg"},
	{"Corduroy Bucket Hat", "18.00", "https://cdn.example.com/products/bucket-hat.jpg"},
}

// Demo profiles form a referral chain: user2 was referred by user1 and
// user3 by user2, so topping up user2 pays user1 a bonus.
var demoProfiles = []struct {
	UserID        string
	FullName      string
	Email         string
	AccountNumber string
	ReferredBy    string
}{
	{"demo-user-1", "Ama Mensah", "ama@demo.local", "ACCT100001AMA", ""},
	{"demo-user-2", "Kofi Boateng", "kofi@demo.local", "ACCT100002KOF", "ACCT100001AMA"},
	{"demo-user-3", "Esi Owusu", "esi@demo.local", "ACCT100003ESI", "ACCT100002KOF"},
}

func Run() {
	db := store.DB
	var count int64
	if err := db.Model(&models.Profile{}).Where("user_id LIKE ?", "demo-user-%").Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count >= int64(len(demoProfiles)) {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	signupCredit := decimal.RequireFromString("56.00")

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, p := range demoProducts {
			product := models.Product{
				Name:  p.Name,
				Price: decimal.RequireFromString(p.Price),
				Image: p.Image,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
		}

		for _, p := range demoProfiles {
			profile := models.Profile{
				UserID:                 p.UserID,
				FullName:               p.FullName,
				Email:                  p.Email,
				AccountNumber:          p.AccountNumber,
				ReferralCode:           p.ReferredBy,
				Wallet:                 signupCredit,
				WithdrawableCommission: decimal.Zero,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded demo products and profiles",
		zap.Int("products", len(demoProducts)),
		zap.Int("profiles", len(demoProfiles)))
}
