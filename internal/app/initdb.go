package app

import (
	"errors"
	"strings"
	"time"

	"github.com/nbbcoffee/coffeehub/internal/domain"
	"github.com/nbbcoffee/coffeehub/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "coffeehub"

	var account domain.User
	err := a.gormDB.Where("username = ?", superUsername).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashedPassword, herr := common.HashPassword(defaultPassword)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.User{
			ID:       common.UUIDint64(),
			Email:    "admin@coffeehub.local",
			Username: superUsername,
			Password: hashedPassword,
			Role:     domain.RoleAdmin,
			Verified: true,
			FullName: "administrator",
		}).Error; err != nil {
			zap.L().Error("failed to create default admin account", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query admin account", zap.Error(err))
		return
	}

	resetRole := !strings.EqualFold(string(account.Role), string(domain.RoleAdmin))
	resetVerified := !account.Verified

	if !resetRole && !resetVerified {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetRole {
		updates["role"] = domain.RoleAdmin
	}
	if resetVerified {
		updates["verified"] = true
	}

	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", account.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair default admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default admin account",
		zap.String("username", superUsername),
		zap.Bool("roleReset", resetRole),
		zap.Bool("verifiedReset", resetVerified))
}

// checkDefaultPrices seeds the price board with the common coffee types so
// the front page has content on a fresh database.
func (a *Application) checkDefaultPrices() {
	defaultPrices := []domain.CoffeePrice{
		{CoffeeType: "Arabika", Price: 95000, Description: "Harga acuan per kg"},
		{CoffeeType: "Robusta", Price: 62000, Description: "Harga acuan per kg"},
	}

	for _, p := range defaultPrices {
		var count int64
		a.gormDB.Model(&domain.CoffeePrice{}).Where("coffee_type = ?", p.CoffeeType).Count(&count)
		if count == 0 {
			p.ID = common.UUIDint64()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default price", zap.String("coffee_type", p.CoffeeType), zap.Error(err))
			} else {
				zap.L().Info("initialized default price", zap.String("coffee_type", p.CoffeeType))
			}
		}
	}
}
