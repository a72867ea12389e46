// Command testchat sends one chat turn to a running FUDSCAN backend and
// prints what came back.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/chatclient"
	"github.com/spf13/cobra"
)

type options struct {
	url     string
	message string
	stream  bool
	timeout time.Duration
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:          "testchat",
		Short:        "Send a chat turn to /api/chat and print the response",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			client := chatclient.New(opts.url, chatclient.WithTimeout(opts.timeout))
			if opts.stream {
				return runStream(ctx, cmd.OutOrStdout(), client, opts.message)
			}
			return runSend(ctx, cmd.OutOrStdout(), client, opts.message)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.url, "url", "http://localhost:8080", "base URL of the backend")
	flags.StringVarP(&opts.message, "message", "m", "Tell me about Filecoin", "message to send")
	flags.BoolVarP(&opts.stream, "stream", "s", false, "request a streamed reply")
	flags.DurationVar(&opts.timeout, "timeout", chatclient.DefaultTimeout, "timeout for the whole call")

	return cmd
}

func runSend(ctx context.Context, out io.Writer, client *chatclient.Client, message string) error {
	result, err := client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error testing chat API: %w", err)
	}

	fmt.Fprintln(out, "Response status:", result.StatusCode)
	fmt.Fprintln(out, "Response headers:", result.ContentType)
	if !result.OK() {
		fmt.Fprintln(out, "Error:", result.ErrorMessage)
		return fmt.Errorf("chat API returned status %d", result.StatusCode)
	}

	data, err := json.MarshalIndent(result.Response, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Response data:", string(data))
	return nil
}

func runStream(ctx context.Context, out io.Writer, client *chatclient.Client, message string) error {
	stream, err := client.Stream(ctx, message)
	if err != nil {
		return fmt.Errorf("error testing chat API: %w", err)
	}
	defer stream.Cancel()

	for chunk := range stream.Chunks() {
		fmt.Fprint(out, chunk.Content)
	}
	fmt.Fprintln(out)

	if err := stream.Err(); err != nil {
		return fmt.Errorf("error testing chat API: %w", err)
	}
	fmt.Fprintln(out, "Stream completed:", stream.ID)
	return nil
}
