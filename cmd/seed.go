/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deskhive/apiserver/config"
	"github.com/deskhive/apiserver/internal/db"
	"github.com/deskhive/apiserver/internal/store"
	"github.com/deskhive/apiserver/types"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedPassword string

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or reset the demo accounts",
	Long: `Creates the demo customer, staff, and admin accounts, or resets
their role and password if they already exist. The shared password must
be supplied explicitly:

	deskhive seed --password <password>
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(seedPassword) == "" {
			return errors.New("--password is required")
		}

		cfg := config.LoadConfig()
		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		defer func() {
			_ = dbConn.Close()
		}()

		hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		demoUsers := []types.User{
			{Email: "demo.customer@deskhive.local", Name: "Demo Customer", Role: types.RoleCustomer},
			{Email: "demo.staff@deskhive.local", Name: "Demo Staff", Role: types.RoleStaff},
			{Email: "demo.admin@deskhive.local", Name: "Demo Admin", Role: types.RoleAdmin},
		}

		userRepo := store.NewUserRepository(dbConn)
		ctx := cmd.Context()
		for _, demo := range demoUsers {
			demo.PasswordHash = string(hashed)

			existing, err := userRepo.GetByEmail(ctx, demo.Email)
			switch {
			case err == nil:
				existing.Role = demo.Role
				existing.PasswordHash = demo.PasswordHash
				if _, err := userRepo.Update(ctx, existing); err != nil {
					return fmt.Errorf("update %s failed: %w", demo.Email, err)
				}
				cmd.Printf("updated demo user %s (%s)\n", demo.Email, demo.Role)
			case errors.Is(err, store.ErrNotFound):
				if _, err := userRepo.Create(ctx, demo); err != nil {
					return fmt.Errorf("create %s failed: %w", demo.Email, err)
				}
				cmd.Printf("created demo user %s (%s)\n", demo.Email, demo.Role)
			default:
				return fmt.Errorf("lookup %s failed: %w", demo.Email, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "password for the demo accounts")
}
