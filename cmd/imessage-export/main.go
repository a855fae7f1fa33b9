// imessage-export - A chat.db to txt/json export CLI.
// Copyright (C) 2024 Ludvig Rhodin
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/lrhodin/imessage-export/internal/config"
	"github.com/lrhodin/imessage-export/internal/export"
	"github.com/lrhodin/imessage-export/internal/imessage"
)

var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "imessage-export",
		Usage:   "Export an Apple Messages chat.db to txt/json transcripts",
		Version: fmt.Sprintf("%s (%s, built %s)", Tag, Commit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", Usage: "path to the YAML config file"},
		},
		Commands: []*cli.Command{
			exportCommand(),
			watchCommand(),
			diagnoseCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfigAndLogger(c *cli.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading config: %w", err)
	}
	logger, err := cfg.Logging.BuildLogger()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("building logger: %w", err)
	}
	return cfg, *logger, nil
}

func buildQueryContext(cfg *config.Config) (imessage.QueryContext, error) {
	var qc imessage.QueryContext
	if cfg.Export.StartDate != "" {
		if err := qc.SetStart(cfg.Export.StartDate); err != nil {
			return qc, err
		}
	}
	if cfg.Export.EndDate != "" {
		if err := qc.SetEnd(cfg.Export.EndDate); err != nil {
			return qc, err
		}
	}
	qc.SetSelectedChatIDs(cfg.Export.SelectedChatIDs)
	qc.SetSelectedHandleIDs(cfg.Export.SelectedHandleIDs)
	return qc, nil
}

func openAndResolve(ctx context.Context, cfg *config.Config) (*imessage.ChatDB, export.ChatResolver, error) {
	db, err := imessage.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	chats, err := db.Chats(ctx)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	byID := make(map[int64]*imessage.Chat, len(chats))
	for i := range chats {
		byID[chats[i].RowID] = &chats[i]
	}
	resolve := func(chatID int64) *imessage.Chat { return byID[chatID] }
	return db, resolve, nil
}

func newWriter(format, dir string, log zerolog.Logger) (export.Writer, error) {
	if format == "json" {
		return export.NewJSONWriter(dir, log)
	}
	return export.NewTxtWriter(dir, log)
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Stream chat.db through the decoder and write txt/json transcripts",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfigAndLogger(c)
			if err != nil {
				return err
			}
			ctx := logger.WithContext(context.Background())

			qc, err := buildQueryContext(cfg)
			if err != nil {
				return fmt.Errorf("invalid date filter: %w", err)
			}

			db, resolve, err := openAndResolve(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			w, err := newWriter(cfg.Export.Format, cfg.Export.OutputDir, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			total, err := db.GetCount(ctx, qc)
			if err != nil {
				return err
			}
			logger.Info().Int("total_messages", total).Msg("starting export")

			if err := export.Run(ctx, db, qc, resolve, w); err != nil {
				return err
			}
			logger.Info().Msg("export complete")
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Continuously export new messages as they arrive",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cursor", Value: "watch-cursor.json", Usage: "path to the watch cursor sidecar file"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfigAndLogger(c)
			if err != nil {
				return err
			}
			ctx := logger.WithContext(context.Background())

			cursorPath := c.String("cursor")
			cursor, err := export.LoadWatchCursor(cursorPath)
			if err != nil {
				return err
			}

			return runWatch(ctx, cfg, logger, cursorPath, cursor)
		},
	}
}

func diagnoseCommand() *cli.Command {
	return &cli.Command{
		Name:  "diagnose",
		Usage: "Report structural anomalies in chat.db (dangling messages, duplicate chat membership)",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfigAndLogger(c)
			if err != nil {
				return err
			}
			ctx := context.Background()

			db, err := imessage.Open(ctx, cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := imessage.Diagnose(ctx, db)
			if err != nil {
				return err
			}

			logger.Info().
				Int64("total_messages", report.TotalMessages).
				Int64("dangling_messages", report.DanglingMessages).
				Int64("messages_in_multiple_chats", report.MessagesInMultipleChats).
				Msg("diagnostic complete")
			fmt.Printf("Total messages: %d\n", report.TotalMessages)
			if report.DanglingMessages > 0 {
				fmt.Printf("Messages not associated with a chat: %d\n", report.DanglingMessages)
			}
			if report.MessagesInMultipleChats > 0 {
				fmt.Printf("Messages belonging to more than one chat: %d\n", report.MessagesInMultipleChats)
			}
			return nil
		},
	}
}
