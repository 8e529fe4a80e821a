// Command cookbook is a small CLI over the chat-completion client. It
// reads text from stdin and runs one of the convenience operations
// against the configured provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cookbook-io/cookbook/client"
	"github.com/cookbook-io/cookbook/llm"
	"github.com/cookbook-io/cookbook/logger"
)

func main() {
	var (
		op         = flag.String("op", "summarize", "Operation: summarize | tags | sentiment | chat")
		style      = flag.String("style", "concise", "Summary style (summarize only)")
		maxTags    = flag.Int("max-tags", 5, "Maximum number of tags (tags only)")
		configFile = flag.String("config", "", "Optional YAML config file; environment variables take precedence")
		pretty     = flag.Bool("pretty", false, "Use pretty console output")
	)
	flag.Parse()

	log := logger.Init(*pretty)

	var (
		cfg llm.Config
		err error
	)
	if *configFile != "" {
		cfg, err = llm.LoadConfigFile(*configFile)
	} else {
		cfg, err = llm.ConfigFromEnv()
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read stdin")
		os.Exit(1)
	}
	text := string(input)

	c := client.New(cfg)
	c.Transport().SetLogger(log)

	ctx := context.Background()
	switch *op {
	case "summarize":
		out, err := c.Summarize(ctx, text, *style)
		exitOn(log, err)
		fmt.Println(out)
	case "tags":
		tags, err := c.ExtractTags(ctx, text, *maxTags)
		exitOn(log, err)
		fmt.Println(strings.Join(tags, "\n"))
	case "sentiment":
		out, err := c.AnalyzeSentiment(ctx, text)
		exitOn(log, err)
		fmt.Println(out)
	case "chat":
		result, err := c.Chat(ctx, []llm.ChatMessage{llm.UserMessage(text)})
		exitOn(log, err)
		fmt.Println(result.Text)
	default:
		fmt.Fprintf(os.Stderr, "Unknown operation: %s\n", *op)
		os.Exit(1)
	}
}

func exitOn(log zerolog.Logger, err error) {
	if err == nil {
		return
	}
	switch {
	case llm.IsAuthError(err):
		log.Error().Err(err).Msg("Authentication failed")
	case llm.IsRateLimitError(err):
		log.Error().Err(err).Msg("Rate limited")
	default:
		log.Error().Err(err).Msg("Request failed")
	}
	os.Exit(1)
}
