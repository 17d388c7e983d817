// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package serve implements the "serve" command.
package serve

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/kabuctl/cmd/kabuctl/internal/kabuctlcmd"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlserver"
	"github.com/bufdev/kabuctl/internal/standard/xos"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	addrFlagName           = "addr"
	envFileFlagName        = "env-file"
	maxUploadBytesFlagName = "max-upload-bytes"

	// portEnvVar is the environment variable for the listen port when --addr is not set.
	portEnvVar  = "PORT"
	defaultPort = "8080"

	shutdownTimeout = 10 * time.Second
)

// NewCommand returns a new serve command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name,
		Short: "Serve report rendering over HTTP",
		Long: `Serve report rendering over HTTP.

POST a multipart form with the CSV export in the "file" field to
/process-csv/dividend or /process-csv/profit-loss to receive an HTML table.

The listen address defaults to 0.0.0.0:$PORT, with PORT read from the
environment or the --env-file, and 8080 if unset.`,
		Args: appcmd.NoArgs,
		Run: builder.NewRunFunc(
			func(ctx context.Context, container appext.Container) error {
				return run(ctx, container, flags)
			},
		),
		BindFlags: flags.Bind,
	}
}

type flags struct {
	// Addr is the listen address.
	Addr string
	// EnvFile is an optional dotenv file to read PORT from.
	EnvFile string
	// MaxUploadBytes is the request body size limit.
	MaxUploadBytes int64
	// Config is the path to the configuration file.
	Config string
}

func newFlags() *flags {
	return &flags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.Addr, addrFlagName, "", "The listen address (defaults to 0.0.0.0:$PORT)")
	flagSet.StringVar(&f.EnvFile, envFileFlagName, "", "A dotenv file to read environment variables from")
	flagSet.Int64Var(&f.MaxUploadBytes, maxUploadBytesFlagName, kabuctlserver.DefaultMaxUploadBytes, "The maximum request body size in bytes")
	kabuctlcmd.BindConfigFlag(flagSet, &f.Config)
}

func run(ctx context.Context, container appext.Container, flags *flags) error {
	if flags.MaxUploadBytes <= 0 {
		return appcmd.NewInvalidArgumentErrorf("--%s must be positive", maxUploadBytesFlagName)
	}
	addr, err := listenAddr(container, flags)
	if err != nil {
		return err
	}
	engine, err := kabuctlcmd.NewEngine(container, flags.Config)
	if err != nil {
		return err
	}
	logger := container.Logger()
	server := &http.Server{
		Addr: addr,
		Handler: kabuctlserver.NewHandler(
			logger,
			engine,
			kabuctlserver.WithMaxUploadBytes(flags.MaxUploadBytes),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errC := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errC <- server.ListenAndServe()
	}()
	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errC; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// listenAddr returns --addr, or 0.0.0.0:$PORT with PORT from the env file,
// then the environment, then defaultPort.
func listenAddr(container appext.Container, flags *flags) (string, error) {
	if flags.Addr != "" {
		return flags.Addr, nil
	}
	port := container.Env(portEnvVar)
	if flags.EnvFile != "" {
		envFilePath, err := xos.ExpandHome(flags.EnvFile)
		if err != nil {
			return "", err
		}
		envMap, err := godotenv.Read(envFilePath)
		if err != nil {
			return "", err
		}
		if envPort := envMap[portEnvVar]; envPort != "" {
			port = envPort
		}
	}
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort("0.0.0.0", port), nil
}
