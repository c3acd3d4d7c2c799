package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"resolve/internal/engine"
	"resolve/internal/ui"
)

func newVaultCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage the Vault PIN",
	}
	cmd.AddCommand(newVaultSetupCmd(a), newVaultCheckCmd(a), newVaultRecoverCmd(a))
	return cmd
}

func newVaultSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the 4-digit Vault PIN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			flow := svc.OpenVault()
			if flow.Mode() != engine.ModeCreate {
				return errors.New("the vault already has a PIN (use `resolve vault recover` to reset it)")
			}
			if err := createPIN(ctx, flow, newPrompter(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconLock+" Vault secured"))
			return nil
		},
	}
}

func newVaultCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "unlock-check",
		Aliases: []string{"check"},
		Short:   "Verify the Vault PIN",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := unlockVault(ctx, svc, newPrompter(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconUnlock+" Vault Unlocked"))
			return nil
		},
	}
}

func newVaultRecoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Erase a forgotten PIN using the recovery answers, then set a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			flow := svc.OpenVault()
			if !flow.ForgotPIN() {
				return errors.New("no PIN is set (use `resolve vault setup`)")
			}
			p := newPrompter(cmd)
			year, err := p.line("Birth year: ")
			if err != nil {
				return err
			}
			index, err := p.line("Index number: ")
			if err != nil {
				return err
			}
			res, err := flow.SubmitRecovery(ctx, year, index)
			if err != nil {
				return err
			}
			if flow.Mode() != engine.ModeCreate {
				return noticeError(res.Notice)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconInfo+" "+res.Notice.Title+". "+res.Notice.Detail))
			if err := createPIN(ctx, flow, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconLock+" Vault secured"))
			return nil
		},
	}
}

// unlockVault prompts for the PIN and unlocks the session.
func unlockVault(ctx context.Context, svc *engine.Service, p *prompter) error {
	flow := svc.OpenVault()
	switch flow.Mode() {
	case engine.ModeClosed:
		return nil
	case engine.ModeCreate:
		return errors.New("the vault has no PIN yet (run `resolve vault setup`)")
	}
	pin, err := readPIN(p, "PIN: ")
	if err != nil {
		return err
	}
	flow.Type(pin)
	res, err := flow.Submit(ctx)
	if err != nil {
		return err
	}
	if !res.Unlocked {
		return noticeError(res.Notice)
	}
	return nil
}

// createPIN runs CREATE and CONFIRM on flow.
func createPIN(ctx context.Context, flow *engine.AuthFlow, p *prompter) error {
	pin, err := readPIN(p, "New PIN: ")
	if err != nil {
		return err
	}
	flow.Type(pin)
	if _, err := flow.Submit(ctx); err != nil {
		return err
	}
	confirm, err := readPIN(p, "Confirm PIN: ")
	if err != nil {
		return err
	}
	flow.Type(confirm)
	res, err := flow.Submit(ctx)
	if err != nil {
		return err
	}
	if !res.Unlocked {
		return noticeError(res.Notice)
	}
	return nil
}

func readPIN(p *prompter, label string) (string, error) {
	pin, err := p.secret(label)
	if err != nil {
		return "", err
	}
	if !validPIN(pin) {
		return "", fmt.Errorf("PIN must be exactly %d digits", engine.PINLength)
	}
	return pin, nil
}

func validPIN(pin string) bool {
	if len(pin) != engine.PINLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func noticeError(n *engine.Notice) error {
	if n == nil {
		return errors.New("vault is locked")
	}
	if n.Detail == "" {
		return errors.New(n.Title)
	}
	return fmt.Errorf("%s: %s", n.Title, n.Detail)
}
