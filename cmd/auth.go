package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"catalogadmin/logger"
	"catalogadmin/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginPassword string
	otpCode       string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := promptIfEmpty(loginEmail, "Email: ", false)
		if err != nil {
			return err
		}
		password, err := promptIfEmpty(loginPassword, "Password: ", true)
		if err != nil {
			return err
		}

		res, err := app.client.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if res.Token == "" {
			msg := res.Message
			if msg == "" {
				msg = "login response carried no token"
			}
			return errors.New(msg)
		}
		blob := []byte(res.Raw)
		if _, err := session.Decode(blob); err != nil {
			// token was nested; store the flat shape the session reader expects
			if blob, err = json.Marshal(session.Blob{Token: res.Token, User: res.User}); err != nil {
				return err
			}
		}
		if err := app.store.Save(cmd.Context(), blob); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		app.tokens.Invalidate()
		logger.Info("logged in", logger.String("email", email))
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", displayUser(res.User.Email, email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.store.Clear(cmd.Context()); err != nil {
			return err
		}
		app.tokens.Invalidate()
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session and its token claims",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := app.store.Load(cmd.Context())
		if errors.Is(err, session.ErrNoSession) {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		if err != nil {
			return err
		}
		blob, err := session.Decode(raw)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User:    %s\n", displayUser(blob.User.Email, blob.User.ID))
		claims, err := session.ParseClaims(blob.Token)
		if err != nil {
			fmt.Fprintf(out, "Token:   opaque (%v)\n", err)
			return nil
		}
		if claims.Subject != "" {
			fmt.Fprintf(out, "Subject: %s\n", claims.Subject)
		}
		if claims.Role != "" {
			fmt.Fprintf(out, "Role:    %s\n", claims.Role)
		}
		if !claims.ExpiresAt.IsZero() {
			state := "valid"
			if claims.Expired(time.Now()) {
				state = "expired"
			}
			fmt.Fprintf(out, "Expires: %s (%s)\n", claims.ExpiresAt.Local().Format(time.RFC1123), state)
		}
		return nil
	},
}

var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email",
	Short: "Confirm an account with the emailed code",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := promptIfEmpty(loginEmail, "Email: ", false)
		if err != nil {
			return err
		}
		code, err := promptIfEmpty(otpCode, "Code: ", false)
		if err != nil {
			return err
		}
		msg, err := app.client.VerifyEmail(cmd.Context(), email, code)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), orDefault(msg, "Email verified"))
		return nil
	},
}

var resendOTPCmd = &cobra.Command{
	Use:   "resend-otp",
	Short: "Send a new verification code",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := promptIfEmpty(loginEmail, "Email: ", false)
		if err != nil {
			return err
		}
		msg, err := app.client.ResendOTP(cmd.Context(), email)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), orDefault(msg, "Code sent"))
		return nil
	},
}

// promptIfEmpty asks on the terminal when value was not given as a flag.
func promptIfEmpty(value, prompt string, secret bool) (string, error) {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}
	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, prompt)
	if secret && term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func displayUser(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return "unknown user"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	verifyEmailCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	verifyEmailCmd.Flags().StringVar(&otpCode, "otp", "", "one-time code from the email")
	resendOTPCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, verifyEmailCmd, resendOTPCmd)
}
