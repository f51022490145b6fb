package main

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/http/middleware"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/store"
)

// SeedAdminAccounts creates the default admin and control accounts when the
// accounts file is missing or incomplete. Passwords are bcrypt-hashed before
// they ever touch disk; the defaults come from the environment and should be
// rotated after first login.
func SeedAdminAccounts(st *store.Store, env Environment) {
	adminPassword := env.DefaultAdminPassword
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	controlPassword := env.DefaultControlPassword
	if controlPassword == "" {
		controlPassword = "control123"
	}

	accounts := st.AdminAccounts()
	changed := false

	if !hasAccount(accounts, "admin") {
		accounts = append(accounts, newAccount("admin", adminPassword, model.RoleAdmin))
		log.Warn().Msg("seeded default admin account, change its password")
		changed = true
	}
	if !hasAccount(accounts, "control") {
		accounts = append(accounts, newAccount("control", controlPassword, model.RoleControl))
		log.Warn().Msg("seeded default control account, change its password")
		changed = true
	}

	if changed {
		if err := st.SaveAdminAccounts(accounts); err != nil {
			log.Fatal().Err(err).Msg("could not save seeded admin accounts")
		}
	}
}

func hasAccount(accounts []model.AdminAccount, username string) bool {
	for _, a := range accounts {
		if a.Username == username {
			return true
		}
	}
	return false
}

func newAccount(username, password, role string) model.AdminAccount {
	hashed, err := middleware.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Str("username", username).Msg("could not hash seed password")
	}
	return model.AdminAccount{
		Username:       username,
		HashedPassword: hashed,
		Role:           role,
		CreatedAt:      time.Now(),
	}
}
