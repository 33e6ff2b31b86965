package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/maauso/showreel-api/internal/compose"
	"github.com/maauso/showreel-api/internal/theme"
)

func newComposeCommand(ctx *commandContext) *cobra.Command {
	var (
		themeName  string
		resolution string
		musicURL   string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "compose [flags] IMAGE...",
		Short: "Compose a showreel from image files",
		Long: "Compose encodes the given images, in order, into a themed MP4.\n" +
			"Without --music the theme's default track is used; a track that\n" +
			"cannot be fetched yields a silent video.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(args, themeName, resolution, musicURL)
			if err != nil {
				return err
			}
			// Fail on bad input before loading the engine.
			if err := req.Validate(); err != nil {
				return err
			}

			composer, logger, err := ctx.composer()
			if err != nil {
				return err
			}

			result, err := composer.Compose(cmd.Context(), req)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, result.Data, 0o644); err != nil { // #nosec G306 - output is a shareable video
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Debug("showreel written",
				slog.String("path", output),
				slog.String("session_id", result.SessionID),
			)

			audio := "silent"
			if result.HasAudio {
				audio = "with audio"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %dx%d, %ds, %s)\n",
				output,
				humanize.Bytes(uint64(len(result.Data))),
				result.Width, result.Height,
				result.Duration,
				audio,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&themeName, "theme", "t", string(theme.Cinematic), "Theme: electric, cinematic, retro or neon")
	cmd.Flags().StringVarP(&resolution, "resolution", "r", compose.Resolution4K, "Output resolution: 4k or 1080p")
	cmd.Flags().StringVar(&musicURL, "music", "", "Background music URL overriding the theme default")
	cmd.Flags().StringVarP(&output, "output", "o", "showreel.mp4", "Output file")

	return cmd
}

func buildRequest(paths []string, themeName, resolution, musicURL string) (compose.Request, error) {
	t, err := theme.Parse(themeName)
	if err != nil {
		return compose.Request{}, err
	}
	res, err := compose.ParseResolution(resolution)
	if err != nil {
		return compose.Request{}, err
	}

	frames := make([]compose.Frame, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p) // #nosec G304 - paths are user-supplied CLI arguments
		if err != nil {
			return compose.Request{}, fmt.Errorf("read frame: %w", err)
		}
		frames = append(frames, compose.Frame{
			ID:   strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
			Data: data,
		})
	}

	return compose.Request{
		Frames:     frames,
		Theme:      t,
		Resolution: res,
		MusicURL:   musicURL,
	}, nil
}
