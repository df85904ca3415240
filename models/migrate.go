package models

import (
	"github.com/piggibank/piggibank_backend/config"
)

func MigrateTable() {
	db := config.GetDB()
	logger := config.GetLogger()

	err := db.AutoMigrate(
		&User{},
		&BudgetPeriod{},
		&FixedExpense{},
		&Goal{},
		&BudgetPeriodGoal{},
		&Transaction{},
		&Achievement{},
	)
	if err != nil {
		config.LogError(logger, "migrate", "MigrateTable", "AutoMigrate", nil, err)
	}
}
