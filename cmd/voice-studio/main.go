// main package for the voice-studio client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/voice-studio/internal/api"
	"github.com/book-expert/voice-studio/internal/app"
	"github.com/book-expert/voice-studio/internal/config"
	"github.com/book-expert/voice-studio/internal/convert"
	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/handoff"
	"github.com/book-expert/voice-studio/internal/library"
	"github.com/book-expert/voice-studio/internal/notify"
	"github.com/book-expert/voice-studio/internal/player"
	"github.com/book-expert/voice-studio/internal/store"
	"github.com/book-expert/voice-studio/internal/textprep"
)

// Flag names.
const (
	flagYouTube     = "youtube"
	flagIdea        = "idea"
	flagSend        = "send"
	flagText        = "text"
	flagClean       = "clean"
	flagFiles       = "files"
	flagConvert     = "convert"
	flagPlay        = "play"
	flagArchive     = "archive"
	flagVoices      = "voices"
	flagCloneName   = "clone-name"
	flagCloneAudio  = "clone-audio"
	flagCloneDesc   = "clone-desc"
	flagRemoveVoice = "remove-voice"
	flagVoice       = "voice"
	flagHealth      = "health"
	flagVerbose     = "verbose"
)

// Flag descriptions.
const (
	flagYouTubeDesc     = "Generate a video script from a YouTube URL"
	flagIdeaDesc        = "Generate a video script from an idea"
	flagSendDesc        = "Hand the generated script off to the conversion flow"
	flagTextDesc        = "Add a text block for conversion"
	flagCleanDesc       = "Normalize the --text input for synthesis before adding it"
	flagFilesDesc       = "Comma-separated text files to upload as blocks"
	flagConvertDesc     = "Convert all pending blocks to speech"
	flagPlayDesc        = "Play the first completed block after converting"
	flagArchiveDesc     = "Archive completed audio to the shared object store"
	flagVoicesDesc      = "List the available voices and exit"
	flagCloneNameDesc   = "Name for a newly cloned voice"
	flagCloneAudioDesc  = "Audio sample file for voice cloning"
	flagCloneDescDesc   = "Optional description for a newly cloned voice"
	flagRemoveVoiceDesc = "Remove a cloned voice by id and exit"
	flagVoiceDesc       = "Voice id for newly added blocks (overrides the configured default)"
	flagHealthDesc      = "Check backend availability and exit"
	flagVerboseDesc     = "Enable verbose logging"
)

// Error messages.
const (
	errNoAction           = "Nothing to do: provide --youtube, --idea, --text, --files, --voices, --clone-name, or --remove-voice"
	errYouTubeAndIdea     = "Cannot specify both --youtube and --idea"
	errCloneNeedsBoth     = "Voice cloning needs both --clone-name and --clone-audio"
	errNeedsConvert       = "Both --play and --archive need --convert in the same run"
	errFmtConfigLoad      = "failed to load configuration: %w"
	errFmtBootstrapLogger = "failed to create bootstrap logger: %w"
	errFmtFinalLogger     = "failed to create final logger: %w"
	errFmtNATSConnect     = "failed to connect to NATS at %s: %w"
	errFmtNATSJetStream   = "failed to open JetStream context: %w"
)

// Log and output messages.
const (
	logInitialized     = "voice-studio initialized, backend %s"
	logFileNameDefault = "voice-studio.log"
	logFileNameVerbose = "voice-studio-verbose.log"
	bootstrapLogName   = "voice-studio-bootstrap.log"
)

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	youtube     string
	idea        string
	send        bool
	text        string
	clean       bool
	files       string
	convertAll  bool
	play        bool
	archive     bool
	voices      bool
	cloneName   string
	cloneAudio  string
	cloneDesc   string
	removeVoice string
	voice       string
	health      bool
	verbose     bool
}

// consoleSink prints every toast to stdout as it appears.
type consoleSink struct{}

func (consoleSink) Show(toast core.Toast) {
	if toast.Description == "" {
		fmt.Printf("[%s] %s\n", toast.Variant, toast.Title)

		return
	}

	fmt.Printf("[%s] %s: %s\n", toast.Variant, toast.Title, toast.Description)
}

// studio bundles the wired components for one CLI invocation.
type studio struct {
	cfg       *config.Config
	store     *store.Store
	flows     *app.App
	converter *convert.Converter
	notifier  *notify.Notifier
	previewer *app.Previewer
	archiver  *app.Archiver
	natsConn  *nats.Conn
	log       *logger.Logger
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := parseFlags()

	err := validateFlags(flags)
	if err != nil {
		flag.Usage()

		return err
	}

	bootstrapLog, err := logger.New(os.TempDir(), bootstrapLogName)
	if err != nil {
		return fmt.Errorf(errFmtBootstrapLogger, err)
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		return fmt.Errorf(errFmtConfigLoad, err)
	}

	log, err := setupLogger(cfg, flags.verbose)
	if err != nil {
		return fmt.Errorf(errFmtFinalLogger, err)
	}

	defer func() {
		closeErr := log.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	wired, err := buildStudio(cfg, log)
	if err != nil {
		return err
	}
	defer wired.close()

	log.Info(logInitialized, cfg.API.BaseURL)

	return dispatch(context.Background(), wired, flags)
}

// parseFlags defines and parses the command-line flags.
func parseFlags() appFlags {
	var flags appFlags

	flag.StringVar(&flags.youtube, flagYouTube, "", flagYouTubeDesc)
	flag.StringVar(&flags.idea, flagIdea, "", flagIdeaDesc)
	flag.BoolVar(&flags.send, flagSend, false, flagSendDesc)
	flag.StringVar(&flags.text, flagText, "", flagTextDesc)
	flag.BoolVar(&flags.clean, flagClean, false, flagCleanDesc)
	flag.StringVar(&flags.files, flagFiles, "", flagFilesDesc)
	flag.BoolVar(&flags.convertAll, flagConvert, false, flagConvertDesc)
	flag.BoolVar(&flags.play, flagPlay, false, flagPlayDesc)
	flag.BoolVar(&flags.archive, flagArchive, false, flagArchiveDesc)
	flag.BoolVar(&flags.voices, flagVoices, false, flagVoicesDesc)
	flag.StringVar(&flags.cloneName, flagCloneName, "", flagCloneNameDesc)
	flag.StringVar(&flags.cloneAudio, flagCloneAudio, "", flagCloneAudioDesc)
	flag.StringVar(&flags.cloneDesc, flagCloneDesc, "", flagCloneDescDesc)
	flag.StringVar(&flags.removeVoice, flagRemoveVoice, "", flagRemoveVoiceDesc)
	flag.StringVar(&flags.voice, flagVoice, "", flagVoiceDesc)
	flag.BoolVar(&flags.health, flagHealth, false, flagHealthDesc)
	flag.BoolVar(&flags.verbose, flagVerbose, false, flagVerboseDesc)
	flag.Parse()

	return flags
}

// validateFlags rejects contradictory or empty invocations before any setup
// happens.
func validateFlags(flags appFlags) error {
	if flags.youtube != "" && flags.idea != "" {
		return errors.New(errYouTubeAndIdea)
	}

	if (flags.cloneName == "") != (flags.cloneAudio == "") {
		return errors.New(errCloneNeedsBoth)
	}

	// A session only holds completed audio after a conversion, so playing
	// or archiving without one can never do anything.
	if (flags.play || flags.archive) && !flags.convertAll {
		return errors.New(errNeedsConvert)
	}

	hasAction := flags.youtube != "" ||
		flags.idea != "" ||
		flags.text != "" ||
		flags.files != "" ||
		flags.voices ||
		flags.cloneName != "" ||
		flags.removeVoice != "" ||
		flags.convertAll ||
		flags.archive ||
		flags.health

	if !hasAction {
		return errors.New(errNoAction)
	}

	return nil
}

// setupLogger creates the session logger in the configured logs directory.
func setupLogger(cfg *config.Config, verbose bool) (*logger.Logger, error) {
	logFileName := logFileNameDefault
	if verbose {
		logFileName = logFileNameVerbose
	}

	log, err := logger.New(cfg.Paths.BaseLogsDir, logFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// buildStudio wires the session components from the configuration.
func buildStudio(cfg *config.Config, log *logger.Logger) (*studio, error) {
	client := api.New(cfg.API.BaseURL, cfg.API.APIKey, cfg.Timeout())
	session := store.New()

	if cfg.TTS.DefaultVoice != "" {
		session.SetDefaultVoice(cfg.TTS.DefaultVoice)
	}

	notifier := notify.New(consoleSink{}, cfg.ToastDuration())

	mailbox, err := handoff.New(cfg.Paths.HandoffDir)
	if err != nil {
		return nil, err
	}

	flows := app.New(session, client, notifier, mailbox, log)
	converter := convert.New(session, client, notifier, log)

	playback := player.New(player.NewExecBackend(cfg.Player.Command), nil)

	previewer, err := app.NewPreviewer(session, client, playback, cfg.Paths.OutputDir, log)
	if err != nil {
		return nil, err
	}

	lib, natsConn, err := buildLibrary(cfg, log)
	if err != nil {
		return nil, err
	}

	return &studio{
		cfg:       cfg,
		store:     session,
		flows:     flows,
		converter: converter,
		notifier:  notifier,
		previewer: previewer,
		archiver:  app.NewArchiver(session, client, lib, notifier, log),
		natsConn:  natsConn,
		log:       log,
	}, nil
}

// buildLibrary connects the audio archive when one is configured. A missing
// NATS URL disables archiving without error.
func buildLibrary(cfg *config.Config, log *logger.Logger) (*library.Library, *nats.Conn, error) {
	if !cfg.ArchiveEnabled() {
		return nil, nil, nil
	}

	natsConn, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, nil, fmt.Errorf(errFmtNATSConnect, cfg.NATS.URL, err)
	}

	jetstreamContext, err := natsConn.JetStream()
	if err != nil {
		natsConn.Close()

		return nil, nil, fmt.Errorf(errFmtNATSJetStream, err)
	}

	objectStore, err := library.NewNatsStore(jetstreamContext, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		natsConn.Close()

		return nil, nil, err
	}

	lib := library.New(objectStore, natsConn, cfg.NATS.AudioChunkCreatedSubject, log)

	return lib, natsConn, nil
}

func (s *studio) close() {
	s.previewer.Player().Close()
	s.notifier.Close()

	if s.natsConn != nil {
		s.natsConn.Close()
	}
}

// dispatch routes one invocation to its flow.
func dispatch(ctx context.Context, wired *studio, flags appFlags) error {
	if flags.voice != "" {
		wired.store.SetDefaultVoice(flags.voice)
	}

	switch {
	case flags.health:
		return handleHealth(ctx, wired)
	case flags.voices:
		return handleVoices(ctx, wired)
	case flags.removeVoice != "":
		return wired.flows.RemoveVoice(ctx, flags.removeVoice)
	case flags.cloneName != "":
		return handleClone(ctx, wired, flags)
	case flags.youtube != "" || flags.idea != "":
		return handleScript(ctx, wired, flags)
	default:
		return handleConversion(ctx, wired, flags)
	}
}

// handleHealth uses the voice listing as a liveness probe.
func handleHealth(ctx context.Context, wired *studio) error {
	err := wired.flows.RefreshVoices(ctx)
	if err != nil {
		fmt.Printf("Backend is not reachable: %v\n", err)

		return err
	}

	fmt.Println("Backend is healthy")

	return nil
}

// handleVoices refreshes the registry from the backend and prints it.
func handleVoices(ctx context.Context, wired *studio) error {
	err := wired.flows.RefreshVoices(ctx)
	if err != nil {
		return err
	}

	for _, voice := range wired.store.Voices() {
		marker := " "
		if voice.ID == wired.store.DefaultVoice() {
			marker = "*"
		}

		fmt.Printf("%s %-24s %-6s %-8s %s\n", marker, voice.ID, voice.Language, voice.Gender, voice.Name)
	}

	return nil
}

// handleClone clones a new voice from a local audio sample.
func handleClone(ctx context.Context, wired *studio, flags appFlags) error {
	req := core.VoiceCloneRequest{
		Name:        flags.cloneName,
		AudioPath:   flags.cloneAudio,
		Description: flags.cloneDesc,
	}

	voice, err := wired.flows.CloneVoice(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Cloned voice %s (%s)\n", voice.ID, voice.Name)

	return nil
}

// handleScript generates a script and optionally hands it to the conversion
// flow.
func handleScript(ctx context.Context, wired *studio, flags appFlags) error {
	var (
		script core.Script
		err    error
	)

	if flags.youtube != "" {
		script, err = wired.flows.GenerateFromYouTube(ctx, flags.youtube)
	} else {
		script, err = wired.flows.GenerateFromIdea(ctx, flags.idea)
	}

	if err != nil {
		return err
	}

	fmt.Printf("# %s\n\n%s\n", script.Title, script.Content)

	if flags.send {
		return wired.flows.SendToTTS(script.Content)
	}

	return nil
}

// handleConversion collects blocks from the handoff, the --text flag, and
// --files, then converts, previews, and archives as requested.
func handleConversion(ctx context.Context, wired *studio, flags appFlags) error {
	err := collectBlocks(ctx, wired, flags)
	if err != nil {
		return err
	}

	if flags.convertAll {
		err = convertBlocks(ctx, wired)
		if err != nil {
			return err
		}
	}

	if flags.play {
		err = playFirstCompleted(ctx, wired)
		if err != nil {
			return err
		}
	}

	if flags.archive {
		_, err = wired.archiver.ArchiveCompleted(ctx)
		if err != nil {
			return err
		}
	}

	printBlocks(wired.store.Blocks())

	return nil
}

// collectBlocks pulls in the blocks named on the command line. A script
// waiting in the handoff mailbox is consumed only by a converting run;
// the slot is single-use, and an import into a session that never
// converts would lose the script at process exit.
func collectBlocks(ctx context.Context, wired *studio, flags appFlags) error {
	if flags.convertAll {
		_, _, err := wired.flows.ImportHandoff()
		if err != nil {
			return err
		}
	}

	if flags.text != "" {
		content := flags.text
		if flags.clean {
			content = textprep.NewNormalizer().Clean(content)
		}

		_, err := wired.flows.AddText(content)
		if err != nil {
			return err
		}
	}

	if flags.files != "" {
		paths := strings.Split(flags.files, ",")
		for index := range paths {
			paths[index] = strings.TrimSpace(paths[index])
		}

		_, err := wired.flows.UploadFiles(ctx, paths)
		if err != nil {
			return err
		}
	}

	return nil
}

// convertBlocks runs the batch conversion; an empty session is not an
// error at the CLI surface.
func convertBlocks(ctx context.Context, wired *studio) error {
	_, err := wired.converter.ConvertAll(ctx)
	if err != nil && !errors.Is(err, convert.ErrNothingToConvert) {
		return err
	}

	return nil
}

// playFirstCompleted previews the first block with audio, if any, and
// blocks until playback finishes. Playback runs on a goroutine; returning
// early would let the deferred teardown kill the audio mid-clip.
func playFirstCompleted(ctx context.Context, wired *studio) error {
	for _, block := range wired.store.Blocks() {
		if block.Status != core.StatusCompleted {
			continue
		}

		err := wired.previewer.Play(ctx, block.ID)
		if err != nil {
			return err
		}

		select {
		case <-wired.previewer.Player().Done():
		case <-ctx.Done():
			return fmt.Errorf("playback interrupted: %w", ctx.Err())
		}

		return nil
	}

	return nil
}

// printBlocks renders the session's block list.
func printBlocks(blocks []core.TextBlock) {
	for index, block := range blocks {
		detail := ""

		switch block.Status {
		case core.StatusCompleted:
			detail = block.AudioURL
		case core.StatusError:
			detail = block.Error
		case core.StatusPending, core.StatusLoading:
		}

		fmt.Printf("%2d. [%-9s] voice=%s %s\n", index+1, block.Status, block.Voice, detail)
	}
}
