package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (a *App) registerCmd() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create a new account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "display name"},
			&cli.StringFlag{Name: "email", Usage: "account email"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			userName, err := a.flagOrPrompt(cmd, "name", "Name")
			if err != nil {
				return err
			}
			email, err := a.flagOrPrompt(cmd, "email", "Email")
			if err != nil {
				return err
			}

			password, err := GetPassword(a.out, "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			repeat, err := GetPassword(a.out, "Repeat password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(repeat)

			if string(password) != string(repeat) {
				return errPasswordMismatch
			}

			user, err := a.api.Register(ctx, userName, email, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Registered %s <%s>\n", user.Name, user.Email)
			return err
		},
	}
}

func (a *App) loginCmd() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session locally",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "account email"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			email, err := a.flagOrPrompt(cmd, "email", "Email")
			if err != nil {
				return err
			}

			password, err := GetPassword(a.out, "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			user, err := a.api.Login(ctx, email, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Logged in as %s <%s>\n", user.Name, user.Email)
			return err
		},
	}
}

func (a *App) logoutCmd() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := a.api.Logout(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "Logged out")
			return err
		},
	}
}

func (a *App) verifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check that the stored session is still valid",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := a.api.Verify(ctx); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "Token is valid")
			return err
		},
	}
}

func (a *App) flagOrPrompt(cmd *cli.Command, flag, prompt string) (string, error) {
	if v := cmd.String(flag); v != "" {
		return v, nil
	}
	v, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s is required", flag)
	}
	return v, nil
}
