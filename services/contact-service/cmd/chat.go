package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/domain/model"
	"contactbook/services/contact-service/usecase"
)

const chatBanner = `Contact book assistant. Type "help" for examples, "exit" to leave.`

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Manage contacts conversationally from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// keep log lines out of the conversation unless asked for
			if opts.logLevel == "" {
				opts.logLevel = "error"
			}
			cfg, appLogger, err := opts.load()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, appLogger)
			if err != nil {
				return err
			}
			defer a.close()

			return runChat(cmd.Context(), a.chat, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runChat is a read-eval-print loop over the chat use case. The pending
// confirmation lives here, between turns, just as an HTTP client would hold it.
func runChat(ctx context.Context, chat usecase.ChatUseCase, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, chatBanner)

	var pending *model.ResolvedIntent
	scanner := bufio.NewScanner(in)
	for {
		if pending != nil {
			fmt.Fprint(out, "(yes/no) > ")
		} else {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" && pending == nil {
			continue
		}

		reply, err := chat.HandleMessage(ctx, line, false, pending)
		if err != nil {
			var appErr *domain.AppError
			if !errors.As(err, &appErr) {
				return err
			}
			fmt.Fprintln(out, appErr.Message)
			continue
		}

		pending = reply.Pending
		fmt.Fprintln(out, reply.Message)
		if reply.Result != nil {
			printResult(out, *reply.Result)
		}
	}
}

func printResult(out io.Writer, result model.ActionResult) {
	if u := result.User(); u != nil {
		printUsers(out, []*model.User{u})
		return
	}
	if users := result.Users(); len(users) > 0 {
		printUsers(out, users)
	}
}

func printUsers(out io.Writer, users []*model.User) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tADDRESS")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.FullName, u.Email, u.PhoneNumber, u.Address)
	}
	_ = w.Flush()
}
