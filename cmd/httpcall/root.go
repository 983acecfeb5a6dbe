// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gogama/httpcall"
	"github.com/gogama/httpcall/converter"
	"github.com/gogama/httpcall/request"
	"github.com/gogama/httpcall/transport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	configFile string
	timeout    time.Duration
	http2      bool
	async      bool
	verbose    bool
	include    bool
	headers    []string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	v := viper.New()

	root := &cobra.Command{
		Use:           "httpcall",
		Short:         "Send an HTTP request as a single-shot cancellable call",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	pf.DurationVar(&opts.timeout, "timeout", 0, "timeout of the whole exchange (default 5s)")
	pf.BoolVar(&opts.http2, "http2", false, "enable HTTP/2 over TLS")
	pf.BoolVar(&opts.async, "async", false, "execute the call asynchronously")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log call diagnostics to stderr")
	pf.BoolVarP(&opts.include, "include", "i", false, "print the status line and response headers")
	pf.StringArrayVarP(&opts.headers, "header", "H", nil, "extra request header as 'Name: value' (repeatable)")
	_ = v.BindPFlag("transport.timeout", pf.Lookup("timeout"))
	_ = v.BindPFlag("transport.http2", pf.Lookup("http2"))

	root.AddCommand(newGetCmd(out, opts, v), newPostCmd(out, opts, v))
	return root
}

func newGetCmd(out io.Writer, opts *options, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get URL",
		Short: "Send a GET request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := request.NewPlanWithContext(cmd.Context(), "GET", args[0], nil)
			if err != nil {
				return err
			}
			return run(cmd, out, opts, v, p)
		},
	}
}

func newPostCmd(out io.Writer, opts *options, v *viper.Viper) *cobra.Command {
	var data, contentType string
	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Send a POST request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := request.NewPlanWithContext(cmd.Context(), "POST", args[0], data)
			if err != nil {
				return err
			}
			p.Header.Set("Content-Type", contentType)
			return run(cmd, out, opts, v, p)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body")
	cmd.Flags().StringVar(&contentType, "content-type", "application/json", "request body content type")
	return cmd
}

func run(cmd *cobra.Command, out io.Writer, opts *options, v *viper.Viper, p *request.Plan) error {
	logger := newLogger(opts.verbose, cmd.ErrOrStderr())
	defer func() {
		_ = logger.Sync()
	}()

	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", opts.configFile, err)
		}
	}
	cfg, err := transport.LoadConfig(v)
	if err != nil {
		return err
	}
	client, err := transport.NewClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	for _, h := range opts.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("malformed header %q", h)
		}
		p.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	call := httpcall.NewCall(client, p, converter.Bytes())
	stop := context.AfterFunc(cmd.Context(), call.Cancel)
	defer stop()

	var resp *httpcall.Response[[]byte]
	if opts.async {
		results, err := call.Submit()
		if err != nil {
			return err
		}
		result := <-results
		resp, err = result.Response, result.Err
		if err != nil {
			return err
		}
	} else {
		resp, err = call.Execute()
		if err != nil {
			return err
		}
	}

	return printResponse(out, opts.include, resp)
}

func printResponse(out io.Writer, include bool, resp *httpcall.Response[[]byte]) error {
	raw := resp.Raw()
	if include {
		fmt.Fprintf(out, "%s %s\n", raw.Proto, raw.Status)
		if err := raw.Header.Write(out); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if resp.IsSuccessful() {
		_, err := out.Write(resp.Body())
		return err
	}

	body := resp.ErrorBody()
	defer func() {
		_ = body.Close()
	}()
	if _, err := io.Copy(out, body); err != nil {
		return err
	}
	return fmt.Errorf("server responded %s", raw.Status)
}

func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)
	return zap.New(core)
}
