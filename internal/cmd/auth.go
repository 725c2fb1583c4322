package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reciplore/reciplore/internal/api"
	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/session"
	"github.com/reciplore/reciplore/internal/tui"
	"github.com/reciplore/reciplore/internal/ux"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Register, sign in and manage the session",
		Long: `Sign-in takes two steps. 'auth login' checks your password and emails
a verification code; 'auth verify-login' exchanges the code for a session.
Run interactively, 'auth login' asks for the code itself.`,
	}

	cmd.AddCommand(
		newRegisterCmd(a),
		newVerifyEmailCmd(a),
		newLoginCmd(a),
		newVerifyLoginCmd(a),
		newRefreshCmd(a),
		newStatusCmd(a),
		newLogoutCmd(a),
		newDeleteAccountCmd(a),
	)
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var in session.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. A confirmation link is emailed; open it or pass its
token to 'auth verify-email' before logging in.`,
		Example: `  reciplore auth register --username mona --email mona@example.com
  reciplore auth register --username mona --email mona@example.com --password s3cret --phone +201000000000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptMissing(&in.Username, tui.Prompt{Message: "Username", Required: true}); err != nil {
				return err
			}
			if err := promptMissing(&in.Email, tui.Prompt{Message: "Email", Required: true}); err != nil {
				return err
			}
			if err := promptMissing(&in.Password, tui.Prompt{Message: "Password", Required: true, Secret: true}); err != nil {
				return err
			}
			if err := promptMissing(&in.ConfirmPassword, tui.Prompt{Message: "Confirm password", Required: true, Secret: true}); err != nil {
				return err
			}

			_, err := a.session.Register(cmd.Context(), in)
			return err
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm-password", "", "password confirmation, defaults to --password")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	return cmd
}

func newVerifyEmailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-email <token>",
		Short: "Confirm an email address with the token from the confirmation link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.session.VerifyEmail(cmd.Context(), args[0])
			return err
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password, code string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Example: `  reciplore auth login --email mona@example.com
  reciplore auth login --email mona@example.com --password s3cret --code 123456`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptMissing(&email, tui.Prompt{Message: "Email", Required: true}); err != nil {
				return err
			}
			if err := promptMissing(&password, tui.Prompt{Message: "Password", Required: true, Secret: true}); err != nil {
				return err
			}

			if _, err := a.session.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			if code == "" {
				if !tui.ShouldPrompt() {
					fmt.Fprintln(cmd.ErrOrStderr(), "Run 'reciplore auth verify-login <code>' with the code from your email.")
					return nil
				}
				var err error
				if code, err = tui.PromptForCode(); err != nil {
					return err
				}
			}
			return verifyLogin(cmd, a, code)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&code, "code", "", "verification code, when already known")
	return cmd
}

func newVerifyLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-login [code]",
		Short: "Finish signing in with the emailed verification code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code string
			if len(args) == 1 {
				code = args[0]
			} else {
				if !tui.ShouldPrompt() {
					return apperrors.NewInvalidInputError("verification code is required")
				}
				var err error
				if code, err = tui.PromptForCode(); err != nil {
					return err
				}
			}
			return verifyLogin(cmd, a, code)
		},
	}
}

func verifyLogin(cmd *cobra.Command, a *app, code string) error {
	user, err := a.session.VerifyLogin(cmd.Context(), code)
	if err != nil {
		return err
	}
	return a.render(profileDocument(user))
}

func newRefreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.session.RefreshAccessToken(cmd.Context())
			if err != nil {
				return err
			}
			view := tokenView{Refreshed: true, ExpiresAt: tokenExpiry(token)}
			return a.render(ux.Document{
				Data: view,
				Text: func(w io.Writer, _ bool) error {
					_, err := fmt.Fprintf(w, "Access token refreshed, expires %s.\n", formatExpiry(view.ExpiresAt))
					return err
				},
			})
		},
	}
}

type tokenView struct {
	Refreshed bool       `json:"refreshed" yaml:"refreshed"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

// statusView is what 'auth status' reports.
type statusView struct {
	Status          string     `json:"status" yaml:"status"`
	BaseURL         string     `json:"baseUrl" yaml:"baseUrl"`
	User            *api.User  `json:"user,omitempty" yaml:"user,omitempty"`
	AccessExpiresAt *time.Time `json:"accessTokenExpiresAt,omitempty" yaml:"accessTokenExpiresAt,omitempty"`
	Error           string     `json:"error,omitempty" yaml:"error,omitempty"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.restore(cmd.Context())
			snap := a.session.Snapshot()

			view := statusView{
				Status:  snap.Status().String(),
				BaseURL: a.cfg.API.BaseURL,
				User:    snap.User,
				Error:   snap.Error,
			}
			if token, err := a.session.AccessToken(); err == nil {
				view.AccessExpiresAt = tokenExpiry(token)
			}

			return a.render(ux.Document{
				Data: view,
				Text: func(w io.Writer, noColor bool) error {
					fields := []ux.Field{
						{Key: "Status", Value: view.Status},
						{Key: "Backend", Value: view.BaseURL},
					}
					if view.User != nil {
						fields = append(fields,
							ux.Field{Key: "User", Value: view.User.Username},
							ux.Field{Key: "Email", Value: view.User.Email},
						)
					}
					if snap.IsAuthenticated {
						fields = append(fields, ux.Field{Key: "Token expires", Value: formatExpiry(view.AccessExpiresAt)})
					}
					fields = append(fields, ux.Field{Key: "Last error", Value: view.Error})
					return ux.WriteFields(w, noColor, fields)
				},
			})
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Long:  `Remove the stored tokens. No request is sent to the backend.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newDeleteAccountCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Permanently delete your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := confirm(yes, "Delete your Reciplore account? This cannot be undone.")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			_, err = a.session.DeleteUser(cmd.Context())
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func tokenExpiry(token string) *time.Time {
	exp, ok := session.TokenExpiry(token)
	if !ok {
		return nil
	}
	return &exp
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return "unknown (opaque token)"
	}
	return t.Format(time.RFC3339)
}

// promptMissing fills an empty flag value interactively. Without a
// terminal the value stays empty and validation reports it.
func promptMissing(value *string, p tui.Prompt) error {
	if strings.TrimSpace(*value) != "" || !tui.ShouldPrompt() {
		return nil
	}
	v, err := tui.PromptForString(p)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

// confirm asks before a destructive action unless yes is set. Without a
// terminal it refuses.
func confirm(yes bool, message string) (bool, error) {
	if yes {
		return true, nil
	}
	if !tui.ShouldPrompt() {
		return false, apperrors.NewInvalidInputError("refusing to continue without --yes")
	}
	return tui.PromptForConfirmation(message, false)
}
