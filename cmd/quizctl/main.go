// Command quizctl is a terminal front end for the quiz API.
//
//	quizctl [-api URL] [-timeout 10s] create quiz.json
//	quizctl [-api URL] [-timeout 10s] list
//	quizctl [-api URL] [-timeout 10s] show <id>
//	quizctl [-api URL] [-timeout 10s] delete <id>
//
// The API URL defaults to API_URL from the environment.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"quizbuilder/client"
	"quizbuilder/config"
	"quizbuilder/form"
	"quizbuilder/models"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage: quizctl [-api URL] create <file> | list | show <id> | delete <id>")

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("quizctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apiURL := fs.String("api", cfg.APIURL, "Base URL of the quiz API")
	timeout := fs.Duration("timeout", 10*time.Second, "Per-request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}
	api := client.New(*apiURL).WithHTTPClient(&http.Client{Timeout: *timeout})

	switch rest[0] {
	case "create":
		if len(rest) != 2 {
			return errUsage
		}
		return createQuiz(ctx, api, rest[1], out)
	case "list":
		return listQuizzes(ctx, api, out)
	case "show":
		if len(rest) != 2 {
			return errUsage
		}
		return showQuiz(ctx, api, rest[1], out)
	case "delete":
		if len(rest) != 2 {
			return errUsage
		}
		if err := api.DeleteQuiz(ctx, rest[1]); err != nil {
			return fmt.Errorf("Error deleting quiz: %s", message(err))
		}
		fmt.Fprintf(out, "deleted %s\n", rest[1])
		return nil
	default:
		return errUsage
	}
}

func createQuiz(ctx context.Context, api *client.Client, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var req models.CreateQuizRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	editor := form.NewEditorFrom(form.FromRequest(&req))
	quiz, err := editor.Submit(ctx, api)
	if err != nil {
		return fmt.Errorf("Error creating quiz: %s", message(err))
	}

	fmt.Fprintf(out, "created %s (%d questions)\n", quiz.ID, len(quiz.Questions))
	return nil
}

func listQuizzes(ctx context.Context, api *client.Client, out io.Writer) error {
	summaries, err := api.ListQuizzes(ctx)
	if err != nil {
		return fmt.Errorf("Error loading quizzes: %s", message(err))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tQUESTIONS\tCREATED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Title, s.QuestionCount, s.CreatedAt.Format(time.RFC822))
	}
	return w.Flush()
}

func showQuiz(ctx context.Context, api *client.Client, id string, out io.Writer) error {
	quiz, err := api.GetQuiz(ctx, id)
	if err != nil {
		return fmt.Errorf("Error loading quiz: %s", message(err))
	}

	fmt.Fprintf(out, "%s\n", quiz.Title)
	for i, q := range quiz.Questions {
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, q.Type, q.Text)
		for _, opt := range q.Options {
			mark := " "
			if opt.IsCorrect {
				mark = "x"
			}
			fmt.Fprintf(out, "   [%s] %s\n", mark, opt.Text)
		}
	}
	return nil
}

// message prefers the server's own error text.
func message(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
