package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reciplore/reciplore/internal/api"
	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/ux"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit your profile",
	}

	avatar := &cobra.Command{
		Use:   "avatar",
		Short: "Manage the profile picture",
	}
	avatar.AddCommand(newAvatarUploadCmd(a), newAvatarDeleteCmd(a))

	cmd.AddCommand(newProfileShowCmd(a), newProfileUpdateCmd(a), avatar)
	return cmd
}

func newProfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			return a.render(profileDocument(a.session.User()))
		},
	}
}

func newProfileUpdateCmd(a *app) *cobra.Command {
	var (
		username string
		email    string
		phones   []string
		age      int
	)

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Change profile fields",
		Long:    `Change profile fields. Only the flags you pass are sent.`,
		Example: `  reciplore profile update --username mona --phone +201000000000 --phone +201111111111`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var patch api.UpdateUserRequest
			flags := cmd.Flags()
			if flags.Changed("username") {
				patch.Username = &username
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("phone") {
				patch.PhoneNumbers = &phones
			}
			if flags.Changed("age") {
				if age < 0 {
					return apperrors.NewInvalidInputError("age must not be negative")
				}
				patch.Age = &age
			}

			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			user, err := a.session.UpdateUser(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return a.render(profileDocument(user))
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringSliceVar(&phones, "phone", nil, "phone numbers, replaces the current list")
	cmd.Flags().IntVar(&age, "age", 0, "age in years")
	return cmd
}

func newAvatarUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a new profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeFileReadFailed, apperrors.KindLocalPrecondition,
					"failed to open image", err)
			}
			defer f.Close()

			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			user, err := a.session.UploadProfileImage(cmd.Context(), f.Name(), f)
			if err != nil {
				return err
			}
			return a.render(profileDocument(user))
		},
	}
}

func newAvatarDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the profile picture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			_, err := a.session.DeleteProfileImage(cmd.Context())
			return err
		},
	}
}

func newAddressCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Manage delivery addresses",
	}
	cmd.AddCommand(newAddressListCmd(a), newAddressAddCmd(a), newAddressDeleteCmd(a))
	return cmd
}

func newAddressListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			addrs := a.session.User().Addresses
			return a.render(ux.Document{
				Data: addrs,
				Text: func(w io.Writer, noColor bool) error {
					return writeAddresses(w, noColor, addrs)
				},
			})
		},
	}
}

func newAddressAddCmd(a *app) *cobra.Command {
	var addr api.Address

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Save a delivery address",
		Example: `  reciplore address add --street "12 Tahrir St" --city Cairo --country Egypt --default`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var missing []string
			if addr.Street == "" {
				missing = append(missing, "--street")
			}
			if addr.City == "" {
				missing = append(missing, "--city")
			}
			if addr.Country == "" {
				missing = append(missing, "--country")
			}
			if len(missing) > 0 {
				return apperrors.NewInvalidInputError("missing " + strings.Join(missing, ", "))
			}

			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			added, err := a.session.AddAddress(cmd.Context(), addr)
			if err != nil {
				return err
			}
			return a.render(ux.Document{
				Data: added,
				Text: func(w io.Writer, _ bool) error {
					_, err := fmt.Fprintf(w, "Saved address %s.\n", added.ID)
					return err
				},
			})
		},
	}

	cmd.Flags().StringVar(&addr.Label, "label", "", "short name such as Home or Work")
	cmd.Flags().StringVar(&addr.Street, "street", "", "street and number")
	cmd.Flags().StringVar(&addr.City, "city", "", "city")
	cmd.Flags().StringVar(&addr.State, "state", "", "state or governorate")
	cmd.Flags().StringVar(&addr.Country, "country", "", "country")
	cmd.Flags().StringVar(&addr.PostalCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&addr.Phone, "phone", "", "contact phone for delivery")
	cmd.Flags().BoolVar(&addr.IsDefault, "default", false, "use as the default delivery address")
	return cmd
}

func newAddressDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <address-id>",
		Short: "Remove a saved address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			_, err := a.session.DeleteAddress(cmd.Context(), args[0])
			return err
		},
	}
}

func profileDocument(u *api.User) ux.Document {
	return ux.Document{
		Data: u,
		Text: func(w io.Writer, noColor bool) error {
			if u == nil {
				_, err := fmt.Fprintln(w, "Not logged in.")
				return err
			}

			fields := []ux.Field{
				{Key: "ID", Value: u.ID},
				{Key: "Username", Value: u.Username},
				{Key: "Email", Value: u.Email},
				{Key: "Role", Value: u.Role},
				{Key: "Phone", Value: strings.Join(u.PhoneNumbers, ", ")},
			}
			if u.Age != nil {
				fields = append(fields, ux.Field{Key: "Age", Value: fmt.Sprint(*u.Age)})
			}
			if u.ProfileImageURL != nil {
				fields = append(fields, ux.Field{Key: "Picture", Value: *u.ProfileImageURL})
			}
			if !u.CreatedAt.IsZero() {
				fields = append(fields, ux.Field{Key: "Member since", Value: u.CreatedAt.Format("2006-01-02")})
			}
			if err := ux.WriteFields(w, noColor, fields); err != nil {
				return err
			}

			if len(u.Addresses) == 0 {
				return nil
			}
			fmt.Fprintln(w)
			return writeAddresses(w, noColor, u.Addresses)
		},
	}
}

func writeAddresses(w io.Writer, noColor bool, addrs []api.Address) error {
	rows := make([][]string, 0, len(addrs))
	for _, addr := range addrs {
		def := ""
		if addr.IsDefault {
			def = "yes"
		}
		rows = append(rows, []string{addr.ID, addr.Label, addr.Street, addr.City, addr.Country, def})
	}
	return ux.WriteTable(w, noColor, []string{"ID", "LABEL", "STREET", "CITY", "COUNTRY", "DEFAULT"},
		rows, "No saved addresses.")
}
