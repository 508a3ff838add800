package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	dto "github.com/dropDatabas3/audiohub/internal/http/dto/auth"
	"github.com/dropDatabas3/audiohub/internal/http/server"
	"github.com/dropDatabas3/audiohub/internal/http/services/admin"
	"github.com/dropDatabas3/audiohub/internal/security/password"
)

// cliActor is never a real account id, so self-action checks never trigger.
const cliActor int64 = 0

func newUsersCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUsersCreateCmd(opts), newUsersDeactivateCmd(opts), newUsersListCmd(opts))
	return cmd
}

// withUsers opens storage and hands an admin service to fn.
func withUsers(cmd *cobra.Command, opts *rootOpts, fn func(admin.UsersService) error) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	st, err := server.OpenStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	if st.Driver() == "memory" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: memory storage, changes are lost on exit")
	}
	return fn(admin.NewUsersService(admin.Deps{
		Users:  st.Users(),
		Hasher: password.NewHasher(password.DefaultCost),
	}))
}

func newUsersCreateCmd(opts *rootOpts) *cobra.Command {
	var (
		email, username, pw string
		superuser           bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUsers(cmd, opts, func(svc admin.UsersService) error {
				in := admin.CreateUserInput{Email: email, Username: username, IsSuperuser: superuser}
				if pw != "" {
					in.Password = &pw
				}
				u, err := svc.Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				return printUsers(cmd.OutOrStdout(), opts.out, []repository.User{*u})
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&username, "username", "", "3-10 chars: letters, digits, '_' or '-' (required)")
	cmd.Flags().StringVar(&pw, "password", "", "local password; omit for provider-only accounts")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "grant superuser")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newUsersDeactivateCmd(opts *rootOpts) *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Deactivate an account; its tokens stop working immediately",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUsers(cmd, opts, func(svc admin.UsersService) error {
				u, err := svc.Deactivate(cmd.Context(), cliActor, id)
				if err != nil {
					return err
				}
				return printUsers(cmd.OutOrStdout(), opts.out, []repository.User{*u})
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "account id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newUsersListCmd(opts *rootOpts) *cobra.Command {
	var skip, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUsers(cmd, opts, func(svc admin.UsersService) error {
				users, err := svc.List(cmd.Context(), repository.ListFilter{Skip: skip, Limit: limit})
				if err != nil {
					return err
				}
				return printUsers(cmd.OutOrStdout(), opts.out, users)
			})
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "rows to skip")
	cmd.Flags().IntVar(&limit, "limit", repository.DefaultListLimit, "max rows")
	return cmd
}

func printUsers(w io.Writer, format string, users []repository.User) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.UsersFrom(users))
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tUSERNAME\tYANDEX_ID\tACTIVE\tSUPERUSER")
	for _, u := range users {
		ext := "-"
		if u.ExternalID != nil {
			ext = *u.ExternalID
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%t\n", u.ID, u.Email, u.Username, ext, u.IsActive, u.IsSuperuser)
	}
	return tw.Flush()
}
