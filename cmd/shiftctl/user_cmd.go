package main

import (
	"fmt"
	"strings"

	"github.com/Samamatip/dh-workflow/internal/config"
	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/Samamatip/dh-workflow/internal/pkg/database"
	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
	"github.com/Samamatip/dh-workflow/internal/repository/postgresql"
	serviceAuth "github.com/Samamatip/dh-workflow/internal/service/auth"
	"github.com/Samamatip/dh-workflow/migrations"
	"github.com/spf13/cobra"
)

type createUserOutput struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"departmentId,omitempty"`
}

func newCreateUserCmd() *cobra.Command {
	var (
		email        string
		fullName     string
		role         string
		departmentID string
		password     string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an admin or staff account using the database from .env",
		RunE: func(cmd *cobra.Command, args []string) error {
			newUser := user.User{
				Email:    strings.ToLower(strings.TrimSpace(email)),
				FullName: strings.TrimSpace(fullName),
				Role:     user.Role(role),
			}
			if !newUser.Role.IsValid() {
				return fmt.Errorf("invalid --role %q, expected admin or staff", role)
			}
			if !validator.IsValidEmail(newUser.Email) {
				return fmt.Errorf("invalid --email %q", email)
			}
			if len(password) < 8 {
				return fmt.Errorf("--password must be at least 8 characters")
			}
			if departmentID != "" {
				newUser.DepartmentID = &departmentID
			}
			if newUser.Role == user.RoleStaff && newUser.DepartmentID == nil {
				return fmt.Errorf("--department is required for staff accounts")
			}

			hash, err := serviceAuth.HashPassword(password)
			if err != nil {
				return err
			}
			newUser.PasswordHash = hash

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.NewPostgreSQLDB(cmd.Context(), cfg.DatabaseURL(), database.PoolSettings{MaxConns: 2})
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			if err := migrations.Apply(cmd.Context(), db); err != nil {
				return err
			}

			created, err := postgresql.NewUserRepository(db).Create(cmd.Context(), newUser)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), createUserOutput{
				ID:           created.ID,
				Email:        created.Email,
				Role:         string(created.Role),
				DepartmentID: created.DepartmentID,
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleStaff), "admin or staff")
	cmd.Flags().StringVar(&departmentID, "department", "", "Department id (required for staff)")
	cmd.Flags().StringVar(&password, "password", "", "Initial password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
