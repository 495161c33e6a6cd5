package askcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sgc-backend/internal/assistant"
	"sgc-backend/internal/config"
	"sgc-backend/internal/logger"
	"sgc-backend/internal/models"
	"sgc-backend/internal/services"
)

const askLongDesc string = `Chat with the site assistant from a terminal.

Opens a widget conversation, prints the greeting, then sends each line read
from stdin as a question. The API key is read from API_KEY on every question,
exactly as the site does.

Examples:
  sgcctl ask --lang en
  echo "Do you register domains?" | sgcctl ask --lang vi`

const askShortDesc string = "Chat with the site assistant"

type askCommander struct {
	lang  string
	model string
	debug bool

	// newGenerator is replaced in tests.
	newGenerator func(model string, logger *zap.Logger) (assistant.Generator, func())
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{
		newGenerator: func(model string, logger *zap.Logger) (assistant.Generator, func()) {
			svc := services.NewGeminiService(model, 1, logger)
			return svc, svc.Close
		},
	}

	cmd := &cobra.Command{
		Use:   "ask",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cmder.lang, "lang", "l", string(models.DefaultLanguage), "Reply language (vi or en)")
	cmd.Flags().StringVar(&cmder.model, "model", "", "Gemini model (defaults to GEMINI_MODEL)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Verbose logging")

	return cmd
}

// printer echoes assistant turns as they are appended.
type printer struct {
	out io.Writer
}

func (p printer) MessageAppended(_ int, msg models.ChatMessage) {
	if msg.Role == models.RoleAssistant {
		fmt.Fprintf(p.out, "SGC> %s\n", msg.Text)
	}
}

func (p printer) StatusChanged(awaiting, credentialsAvailable bool) {
	if !awaiting && !credentialsAvailable {
		fmt.Fprintf(p.out, "[!] %s is not set\n", config.APIKeyEnv)
	}
}

func (c *askCommander) run(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.LoadCLI()
	model := c.model
	if model == "" {
		model = cfg.GeminiModel
	}

	// Logs stay quiet unless asked for; replies go to out.
	log := zap.NewNop()
	if c.debug || cfg.Debug {
		log = logger.NewLogger(true)
	}
	defer log.Sync()

	lang := models.ResolveLanguage(c.lang)
	generator, closeGenerator := c.newGenerator(model, log)
	defer closeGenerator()

	a := assistant.New(generator, assistant.EnvCredential(config.APIKeyEnv), log)
	conv := assistant.NewConversation(printer{out: out})
	conv.Open(lang)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		a.Send(ctx, conv, scanner.Text(), lang)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("could not read input: %w", err)
	}
	return nil
}
