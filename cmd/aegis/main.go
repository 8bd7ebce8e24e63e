package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/coder/pretty"
	"github.com/coder/serpent"
	"github.com/muesli/termenv"

	"github.com/aegisdev/aegis"
	"github.com/aegisdev/aegis/parse"
	"github.com/aegisdev/aegis/providers/ai"
	"github.com/aegisdev/aegis/providers/ai/anthropic"
	"github.com/aegisdev/aegis/providers/ai/openai"

	_ "github.com/joho/godotenv/autoload"
)

var colorProfile = termenv.ColorProfile()

func errorf(format string, args ...any) {
	c := pretty.FgColor(colorProfile.Color("#ff5555"))
	pretty.Fprintf(os.Stderr, c, "err: "+format, args...)
}

func infof(format string, args ...any) {
	c := pretty.FgColor(colorProfile.Color("#5f87ff"))
	pretty.Fprintf(os.Stdout, c, format, args...)
}

type chatOptions struct {
	provider     string
	content      string
	model        string
	stream       bool
	jsonOutput   bool
	anthropicKey string
	openaiKey    string
}

func main() {
	var opts chatOptions

	cmd := &serpent.Command{
		Use:   "aegis",
		Short: "aegis is a unified CLI for multiple AI providers",
		Children: []*serpent.Command{
			chatCmd(&opts),
		},
	}

	err := cmd.Invoke().WithOS().Run()
	if err != nil {
		var unknownCmdErr *serpent.UnknownSubcommandError
		if errors.As(err, &unknownCmdErr) {
			os.Exit(1)
		}
		var runCommandErr *serpent.RunCommandError
		if errors.As(err, &runCommandErr) {
			errorf("%s\n", runCommandErr.Err)
			os.Exit(1)
		}

		errorf("%s\n", err)
		os.Exit(1)
	}
}

func chatCmd(opts *chatOptions) *serpent.Command {
	return &serpent.Command{
		Use:   "chat",
		Short: "Chat with an AI model, one-shot or interactively",
		Handler: func(inv *serpent.Invocation) error {
			client, providerType, err := buildClient(opts)
			if err != nil {
				return err
			}

			infof("Using provider: %s\n", providerType)

			if opts.content != "" {
				conversation := []ai.Message{ai.NewTextMessage(ai.RoleUser, opts.content)}
				if opts.jsonOutput {
					return runJSONTurn(inv, client, providerType, conversation)
				}
				return runTurn(inv, client, providerType, conversation, opts.stream)
			}

			return runInteractive(inv, client, providerType, opts.stream)
		},
		Options: []serpent.Option{
			{
				Name:          "provider",
				Description:   "Select AI provider (anthropic or openai).",
				Flag:          "provider",
				FlagShorthand: "p",
				Value:         serpent.StringOf(&opts.provider),
			},
			{
				Name:          "content",
				Description:   "One-shot message content; omit for interactive mode.",
				Flag:          "content",
				FlagShorthand: "c",
				Value:         serpent.StringOf(&opts.content),
			},
			{
				Name:          "model",
				Description:   "Model to use, e.g. claude-3-sonnet-20240229 or gpt-4.",
				Flag:          "model",
				FlagShorthand: "m",
				Value:         serpent.StringOf(&opts.model),
			},
			{
				Name:        "stream",
				Description: "Stream the reply incrementally.",
				Flag:        "stream",
				Default:     "true",
				Value:       serpent.BoolOf(&opts.stream),
			},
			{
				Name:        "json",
				Description: "Extract the JSON payload from the reply and print it indented. Implies a non-streaming one-shot turn.",
				Flag:        "json",
				Value:       serpent.BoolOf(&opts.jsonOutput),
			},
			{
				Name:        "anthropic-key",
				Description: "The Anthropic API key to use.",
				Env:         "ANTHROPIC_API_KEY",
				Flag:        "anthropic-key",
				Value:       serpent.StringOf(&opts.anthropicKey),
			},
			{
				Name:        "openai-key",
				Description: "The OpenAI API key to use.",
				Env:         "OPENAI_API_KEY",
				Flag:        "openai-key",
				Value:       serpent.StringOf(&opts.openaiKey),
			},
		},
	}
}

// buildClient constructs the gateway from the configured credentials and
// picks the requested provider, defaulting to the first configured one.
func buildClient(opts *chatOptions) (*aegis.Aegis, ai.ProviderType, error) {
	var providers []ai.Provider

	if opts.anthropicKey != "" {
		p := anthropic.New(opts.anthropicKey)
		if opts.model != "" {
			p.WithModel(opts.model)
		}
		providers = append(providers, p)
	}
	if opts.openaiKey != "" {
		p := openai.New(opts.openaiKey)
		if opts.model != "" {
			p.WithModel(opts.model)
		}
		providers = append(providers, p)
	}

	if len(providers) == 0 {
		return nil, "", errors.New("no API keys configured; set ANTHROPIC_API_KEY or OPENAI_API_KEY")
	}

	client := aegis.NewWithProviders(providers...)

	providerType := client.Providers()[0]
	if opts.provider != "" {
		providerType = ai.ProviderType(strings.ToLower(opts.provider))
	}

	if _, err := client.Capabilities(providerType); err != nil {
		return nil, "", fmt.Errorf("provider %q: %w", providerType, err)
	}

	return client, providerType, nil
}

// runTurn sends one conversation turn and prints the reply, incrementally
// when streaming is enabled.
func runTurn(inv *serpent.Invocation, client *aegis.Aegis, providerType ai.ProviderType, conversation []ai.Message, stream bool) error {
	ctx := inv.Context()

	if !stream {
		reply, err := client.SendMessage(ctx, providerType, conversation)
		if err != nil {
			return err
		}
		fmt.Fprintln(inv.Stdout, reply.Text())
		return nil
	}

	messageStream, err := client.StreamMessage(ctx, providerType, conversation)
	if err != nil {
		return err
	}
	for fragment, err := range messageStream.Iter() {
		if err != nil {
			fmt.Fprintln(inv.Stdout)
			return err
		}
		fmt.Fprint(inv.Stdout, fragment.Text())
	}
	fmt.Fprintln(inv.Stdout)
	return nil
}

// runJSONTurn sends one non-streaming turn and prints the JSON payload
// extracted from the reply text. Code fences and minor syntax damage in the
// reply are tolerated; prose that contains no JSON is an error.
func runJSONTurn(inv *serpent.Invocation, client *aegis.Aegis, providerType ai.ProviderType, conversation []ai.Message) error {
	reply, err := client.SendMessage(inv.Context(), providerType, conversation)
	if err != nil {
		return err
	}

	payload, err := parse.Reply[json.RawMessage](*reply)
	if err != nil {
		return err
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, payload, "", "  "); err != nil {
		return err
	}
	fmt.Fprintln(inv.Stdout, indented.String())
	return nil
}

// runInteractive loops over stdin turns, carrying the conversation forward
// so each request includes the full history. "exit" or EOF ends the session.
func runInteractive(inv *serpent.Invocation, client *aegis.Aegis, providerType ai.ProviderType, stream bool) error {
	scanner := bufio.NewScanner(inv.Stdin)
	var conversation []ai.Message

	for {
		infof("You: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}

		conversation = append(conversation, ai.NewTextMessage(ai.RoleUser, input))

		reply, err := sendTurn(inv, client, providerType, conversation, stream)
		if err != nil {
			errorf("%s\n", err)
			// Drop the failed user turn so the history stays consistent with
			// what the model actually saw.
			conversation = conversation[:len(conversation)-1]
			continue
		}
		conversation = append(conversation, *reply)
	}
}

// sendTurn performs one exchange and returns the assistant reply so the
// interactive loop can append it to the history.
func sendTurn(inv *serpent.Invocation, client *aegis.Aegis, providerType ai.ProviderType, conversation []ai.Message, stream bool) (*ai.Message, error) {
	ctx := inv.Context()

	if !stream {
		reply, err := client.SendMessage(ctx, providerType, conversation)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(inv.Stdout, reply.Text())
		return reply, nil
	}

	messageStream, err := client.StreamMessage(ctx, providerType, conversation)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for fragment, err := range messageStream.Iter() {
		if err != nil {
			fmt.Fprintln(inv.Stdout)
			return nil, err
		}
		text := fragment.Text()
		sb.WriteString(text)
		fmt.Fprint(inv.Stdout, text)
	}
	fmt.Fprintln(inv.Stdout)

	reply := ai.NewTextMessage(ai.RoleAssistant, sb.String())
	return &reply, nil
}
