package configs

import (
	"log/slog"

	"tableserve/entity"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the bootstrap platform admin from env, once.
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		slog.Warn("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Name:     "Platform Admin",
		Email:    email,
		Password: string(hash),
		Role:     entity.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// SeedDemo sets up one demo venue with stations, tables, staff and a
// small menu so a fresh database is usable immediately.
func SeedDemo() error {
	db := DB()

	var count int64
	db.Model(&entity.Restaurant{}).Count(&count)
	if count > 0 {
		return nil
	}

	rest := entity.Restaurant{
		Name:            "Spice Route",
		Address:         "12 MG Road",
		Phone:           "080-5550123",
		MaxItemQuantity: 10,
		MaxOrderValue:   8000,
	}
	if err := db.Create(&rest).Error; err != nil {
		return err
	}

	hot := entity.KitchenStation{Name: "Hot Kitchen", RestaurantID: rest.ID}
	bar := entity.KitchenStation{Name: "Beverages", RestaurantID: rest.ID}
	if err := db.Create(&hot).Error; err != nil {
		return err
	}
	if err := db.Create(&bar).Error; err != nil {
		return err
	}

	for _, name := range []string{"T1", "T2", "T3", "T4"} {
		if err := db.Create(&entity.Table{Name: name, RestaurantID: rest.ID}).Error; err != nil {
			return err
		}
	}

	menu := []entity.MenuItem{
		{
			Name: "Paneer Tikka", Price: 320, RestaurantID: rest.ID, KitchenStationID: hot.ID,
			Modifiers: []entity.ModifierGroup{
				{
					Title: "Spice Level", Type: entity.ModifierSingleSelect,
					Options: []entity.ModifierOption{
						{Name: "Mild", Price: 0},
						{Name: "Medium", Price: 0},
						{Name: "Extra Hot", Price: 0},
					},
				},
				{
					Title: "Add-ons", Type: entity.ModifierMultiSelect,
					Options: []entity.ModifierOption{
						{Name: "Extra Paneer", Price: 80},
						{Name: "Mint Chutney", Price: 20},
					},
				},
			},
		},
		{Name: "Butter Naan", Price: 60, RestaurantID: rest.ID, KitchenStationID: hot.ID},
		{Name: "Masala Chai", Price: 40, RestaurantID: rest.ID, KitchenStationID: bar.ID},
		{Name: "Fresh Lime Soda", Price: 70, RestaurantID: rest.ID, KitchenStationID: bar.ID},
	}
	for i := range menu {
		if err := db.Create(&menu[i]).Error; err != nil {
			return err
		}
	}

	staff := []struct {
		name, email, role string
		stationID         *uint
	}{
		{"Meera Iyer", "manager@demo.local", entity.RoleManager, nil},
		{"Arjun Nair", "waiter@demo.local", entity.RoleWaiter, nil},
		{"Ravi Kumar", "chef@demo.local", entity.RoleChef, &hot.ID},
		{"Sana Shaikh", "barista@demo.local", entity.RoleChef, &bar.ID},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	for _, s := range staff {
		u := entity.User{
			Name:             s.name,
			Email:            s.email,
			Password:         string(hash),
			Role:             s.role,
			RestaurantID:     &rest.ID,
			KitchenStationID: s.stationID,
		}
		if err := db.Create(&u).Error; err != nil {
			return err
		}
	}

	slog.Info("seeded demo venue", "restaurantId", rest.ID)
	return nil
}
