package login

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/furrctorio/furrctorio/cmd/furr/cmdutil"
	"github.com/furrctorio/furrctorio/internal/environment"
	"github.com/furrctorio/furrctorio/internal/i18n"
	"github.com/furrctorio/furrctorio/internal/logger"
	"github.com/furrctorio/furrctorio/internal/modportal"
	"github.com/furrctorio/furrctorio/internal/perf"
)

const (
	usernameKey = "FACTORIO_USERNAME"
	tokenKey    = "FACTORIO_TOKEN"
	envFileMode = 0o600
)

var (
	errMissingUsername = errors.New("a username is required")
	errEmptyPassword   = errors.New("password must not be empty")
)

type Authenticator interface {
	Login(ctx context.Context, username string, password string, emailCode string) (modportal.Credentials, error)
}

type loginOptions struct {
	Username  string
	EmailCode string
	Save      bool
	EnvPath   string
}

type loginDeps struct {
	fs           afero.Fs
	logger       *logger.Logger
	portal       Authenticator
	readPassword func() (string, error)
}

type loginRunner func(context.Context, loginOptions, loginDeps) error

func Command() *cobra.Command {
	return commandWithRunner(runLogin)
}

func commandWithRunner(runner loginRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: i18n.T("cmd.login.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.login")
			defer span.End()

			global, err := cmdutil.ReadGlobalOptions(cmd)
			if err != nil {
				return err
			}
			username, err := cmd.Flags().GetString("username")
			if err != nil {
				return err
			}
			emailCode, err := cmd.Flags().GetString("email-code")
			if err != nil {
				return err
			}
			save, err := cmd.Flags().GetBool("save")
			if err != nil {
				return err
			}
			envPath, err := cmd.Flags().GetString("env-file")
			if err != nil {
				return err
			}

			settings, err := environment.Load()
			if err != nil {
				return err
			}
			if username == "" {
				username = settings.Username
			}

			fs := afero.NewOsFs()
			portal, closeCache, err := cmdutil.NewPortalClient(settings, fs)
			if err != nil {
				return err
			}
			defer func() { _ = closeCache() }()

			log := logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), global.Quiet, global.Debug)
			err = runner(ctx, loginOptions{
				Username:  username,
				EmailCode: emailCode,
				Save:      save,
				EnvPath:   envPath,
			}, loginDeps{
				fs:           fs,
				logger:       log,
				portal:       portal,
				readPassword: passwordReader(cmd.InOrStdin(), cmd.ErrOrStderr()),
			})
			span.SetAttributes(attribute.Bool("success", err == nil))
			return err
		},
	}

	cmd.Flags().StringP("username", "u", "", i18n.T("cmd.login.flag.username"))
	cmd.Flags().String("email-code", "", i18n.T("cmd.login.flag.email_code"))
	cmd.Flags().Bool("save", false, i18n.T("cmd.login.flag.save"))
	cmd.Flags().String("env-file", ".env", i18n.T("cmd.login.flag.env_file"))
	return cmd
}

func runLogin(ctx context.Context, opts loginOptions, deps loginDeps) error {
	if opts.Username == "" {
		return errMissingUsername
	}

	password, err := deps.readPassword()
	if err != nil {
		return err
	}
	if password == "" {
		return errEmptyPassword
	}

	creds, err := deps.portal.Login(ctx, opts.Username, password, opts.EmailCode)
	if err != nil {
		var loginErr *modportal.LoginError
		if errors.As(err, &loginErr) && loginErr.NeedsEmailCode() {
			deps.logger.Log(i18n.T("cmd.login.email_code_required"), true)
		}
		return err
	}

	deps.logger.Log(i18n.T("cmd.login.success", i18n.Tvars{
		Data: &i18n.TData{"username": creds.Username},
	}), false)

	if !opts.Save {
		deps.logger.Log(fmt.Sprintf("%s=%s\n%s=%s", usernameKey, creds.Username, tokenKey, creds.Token), true)
		return nil
	}

	if err := saveCredentials(deps.fs, opts.EnvPath, creds); err != nil {
		return err
	}
	deps.logger.Log(i18n.T("cmd.login.saved", i18n.Tvars{
		Data: &i18n.TData{"path": opts.EnvPath},
	}), false)
	return nil
}

// saveCredentials merges the credentials into the env file, keeping any
// other variables it already holds.
func saveCredentials(fs afero.Fs, path string, creds modportal.Credentials) error {
	values := map[string]string{}
	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		values, err = godotenv.Unmarshal(string(data))
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	values[usernameKey] = creds.Username
	values[tokenKey] = creds.Token

	content, err := godotenv.Marshal(values)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, []byte(content+"\n"), envFileMode)
}

type fdReader interface {
	io.Reader
	Fd() uintptr
}

// passwordReader reads without echo from a terminal and falls back to the
// first line of input otherwise.
func passwordReader(in io.Reader, prompt io.Writer) func() (string, error) {
	return func() (string, error) {
		if file, ok := in.(fdReader); ok && term.IsTerminal(file.Fd()) {
			_, _ = fmt.Fprint(prompt, i18n.T("cmd.login.password_prompt"))
			password, err := term.ReadPassword(file.Fd())
			_, _ = fmt.Fprintln(prompt)
			if err != nil {
				return "", err
			}
			return string(password), nil
		}
		return readLine(in)
	}
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
