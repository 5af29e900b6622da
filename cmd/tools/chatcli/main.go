// Command chatcli talks to the farm assistant from a terminal, using the same
// conversation and reply resolver the server uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/smartfarm/assistant/backend/internal/config"
	"github.com/smartfarm/assistant/backend/internal/logger"
	chatModel "github.com/smartfarm/assistant/backend/internal/model/chat"
	"github.com/smartfarm/assistant/backend/internal/render"
	"github.com/smartfarm/assistant/backend/internal/service/chat"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
)

const helpText = "Commands: /new starts a fresh conversation, /quit exits."

func main() {
	name := flag.String("name", "Farmer", "display name used in the greeting")
	farmID := flag.String("farm", "", "farm identifier passed to the assistant")
	width := flag.Int("width", 88, "word wrap width for rendered replies")
	historyPath := flag.String("history", defaultHistoryPath(), "file for input history, empty to disable")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr}, cfg.ServiceName+"-cli", level)

	ctx := context.Background()
	resolver, err := reply.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build reply resolver")
	}

	profile := chatModel.Profile{Name: *name, FarmID: *farmID}
	conv := chat.NewConversation(uuid.NewString(), profile, resolver, log)
	defer func() { conv.Close() }()

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()
	loadHistory(line, *historyPath)
	defer saveHistory(line, *historyPath)

	term := render.NewTerminal(*width)
	printed := printNew(os.Stdout, term, conv.Messages(), 0)
	fmt.Println(helpText)

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				log.Error().Err(err).Msg("read input")
			}
			fmt.Println()
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch strings.ToLower(input) {
		case "/quit", "/exit":
			return
		case "/help":
			fmt.Println(helpText)
			continue
		case "/new":
			conv.Close()
			conv = chat.NewConversation(uuid.NewString(), profile, resolver, log)
			printed = printNew(os.Stdout, term, conv.Messages(), 0)
			continue
		}

		if err := conv.Submit(ctx, input); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		// The user's own line is already on screen.
		printed++

		fmt.Println("assistant is thinking…")
		if err := conv.Wait(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return
		}
		printed = printNew(os.Stdout, term, conv.Messages(), printed)
	}
}

// printNew prints messages[from:] and returns the new count.
func printNew(w io.Writer, term *render.Terminal, messages []chatModel.Message, from int) int {
	for _, msg := range messages[from:] {
		if msg.FromUser() {
			fmt.Fprintf(w, "you> %s\n", msg.Text)
			continue
		}
		fmt.Fprintln(w, strings.TrimRight(term.Render(msg.Text), "\n"))
	}
	return len(messages)
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "farm-assistant", "chat_history")
}

func loadHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if f, err := os.Open(path); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}
