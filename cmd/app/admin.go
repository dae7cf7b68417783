package app

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vietanh2810/basepoint-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
	"github.com/vietanh2810/basepoint-api/internal/service"
)

func createAdminCommand() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := validation.Errors{
				"email": validation.Validate(email, validation.Required, is.Email),
				"name":  validation.Validate(name, validation.Required, validation.Length(2, 50)),
			}.Filter()
			if err != nil {
				return err
			}
			if err = request.ValidatePassword(password); err != nil {
				return err
			}

			_, gdb, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			svc := service.NewAuthService(repository.NewUserRepository(dao.NewUserDAO(gdb)))
			admin, err := svc.CreateAdmin(cmd.Context(), domain.User{
				Email:    email,
				Password: password,
				Name:     name,
			})
			if err != nil {
				if errors.Is(err, service.ErrUserEmailExists) {
					return fmt.Errorf("an account already uses %s", email)
				}
				return fmt.Errorf("svc.CreateAdmin -> %w", err)
			}

			zap.L().Info("admin created", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email))

			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "", "admin display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
