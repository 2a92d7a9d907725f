package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/pkg/candidate"
	"resume-assistant-be/pkg/conversation"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	serverURL     string
	resumePath    string
	candidateName string
	timeout       time.Duration
	offline       bool
	latency       time.Duration

	rootCmd = &cobra.Command{
		Use:          "chat",
		Short:        "Upload a resume and chat with the resume assistant from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:8000", "resume assistant base URL")
	rootCmd.Flags().StringVarP(&resumePath, "resume", "r", "", "PDF resume to upload before chatting")
	rootCmd.Flags().StringVarP(&candidateName, "name", "n", "", "candidate name sent with the upload")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", conversation.DefaultTimeout, "per-message timeout, 0 disables it")
	rootCmd.Flags().BoolVar(&offline, "offline", false, "answer locally with the keyword rules instead of calling the server")
	rootCmd.Flags().DurationVar(&latency, "latency", time.Second, "simulated reply delay in offline mode")
}

func run(ctx context.Context) error {
	httpClient := &http.Client{}

	session, err := openSession(ctx, httpClient)
	if err != nil {
		color.Red("Upload failed: %v", err)
		return err
	}
	color.Green("Chatting about %s (%s)", session.CandidateName, session.CandidateId)
	color.HiBlack("Commands: /upload <file.pdf>, /history, /quit")

	var resolver conversation.Resolver
	var remote *conversation.RemoteResolver
	if offline {
		resolver = conversation.NewLocalResolver(latency)
	} else {
		remote = conversation.NewRemoteResolver(serverURL, session.CandidateId, httpClient)
		resolver = remote
	}

	controller := conversation.NewController(session, resolver,
		conversation.WithTimeout(timeout),
		conversation.WithErrorHandler(func(err error) {
			color.HiBlack("(%v)", err)
		}),
	)

	for {
		input, err := (&promptui.Prompt{Label: "You"}).Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}

		switch cmd := strings.TrimSpace(input); {
		case cmd == "/quit":
			return nil
		case cmd == "/history":
			printTranscript(controller.Transcript())
			continue
		case strings.HasPrefix(cmd, "/upload "):
			resumePath = strings.TrimSpace(strings.TrimPrefix(cmd, "/upload "))
			if err := reupload(ctx, httpClient, controller, remote); err != nil {
				color.Red("Upload failed: %v", err)
			}
			continue
		}

		controller.SetInput(input)
		if !controller.CanSubmit() {
			continue
		}

		exchange, err := controller.SubmitInput(ctx)
		if err != nil {
			color.Red("%v", err)
			continue
		}
		printReply(exchange)
	}
}

func openSession(ctx context.Context, httpClient *http.Client) (entity.CandidateSession, error) {
	if offline || resumePath == "" {
		id, err := candidate.NewIDGenerator().Next()
		if err != nil {
			return entity.CandidateSession{}, err
		}
		name := candidateName
		if name == "" {
			name = constant.DefaultCandidateName
		}
		return entity.CandidateSession{CandidateId: id, CandidateName: name, CreatedAt: time.Now()}, nil
	}
	return conversation.NewUploadClient(serverURL, httpClient).UploadFile(ctx, resumePath, candidateName)
}

func reupload(ctx context.Context, httpClient *http.Client, controller *conversation.Controller, remote *conversation.RemoteResolver) error {
	if remote == nil {
		return fmt.Errorf("uploads are not available offline")
	}

	session, err := conversation.NewUploadClient(serverURL, httpClient).UploadFile(ctx, resumePath, candidateName)
	if err != nil {
		return err
	}

	if err := controller.Reset(session); err != nil {
		return err
	}
	remote.Bind(session.CandidateId)
	color.Green("Now chatting about %s (%s)", session.CandidateName, session.CandidateId)
	return nil
}

func printReply(exchange *conversation.Exchange) {
	if exchange.Failed {
		color.Yellow("Assistant: %s", exchange.Reply.Content)
		return
	}
	sources := ""
	if len(exchange.Citations) > 0 {
		sources = " [" + strings.Join(exchange.Citations, ", ") + "]"
	}
	fmt.Printf("%s %s%s\n", color.CyanString("Assistant:"), exchange.Reply.Content, color.HiBlackString(sources))
}

func printTranscript(turns []entity.ConversationTurn) {
	if len(turns) == 0 {
		color.HiBlack("(no messages yet)")
		return
	}
	for _, t := range turns {
		label := color.CyanString("%s:", t.Role)
		if t.Role == constant.ChatMessageRoleUser {
			label = color.GreenString("%s:", t.Role)
		}
		fmt.Printf("%s %s\n", label, t.Content)
	}
}
