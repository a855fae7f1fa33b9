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

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/lrhodin/imessage-export/internal/config"
	"github.com/lrhodin/imessage-export/internal/export"
	"github.com/lrhodin/imessage-export/internal/imessage"
)

// runWatch tails chat.db-wal for writes and re-runs the streaming query
// from the last seen date each time it changes, persisting progress to
// cursorPath so a restart resumes rather than re-exporting everything.
func runWatch(ctx context.Context, cfg *config.Config, logger zerolog.Logger, cursorPath string, cursor export.WatchCursor) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	walPath := cfg.Database.Path + "-wal"
	if err := watcher.Add(walPath); err != nil {
		return fmt.Errorf("watching %s: %w", walPath, err)
	}

	drain := func() error {
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

		var qc imessage.QueryContext
		if cursor.LastDate > 0 {
			start := cursor.LastDate
			qc.Start = &start
		}

		var lastRowID, lastDate int64
		err = db.Stream(ctx, qc, func(msg imessage.Message) error {
			if msg.RowID == cursor.LastRowID {
				return nil
			}
			lastRowID = msg.RowID
			lastDate = msg.Date
			return w.WriteMessage(ctx, resolve(msg.ChatID), msg)
		})
		if err != nil {
			return err
		}
		if lastRowID != 0 {
			cursor.LastRowID = lastRowID
			cursor.LastDate = lastDate
			if err := cursor.Save(cursorPath); err != nil {
				logger.Error().Err(err).Msg("failed to persist watch cursor")
			}
		}
		return nil
	}

	logger.Info().Msg("watch: performing initial drain")
	if err := drain(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := drain(); err != nil {
				logger.Error().Err(err).Msg("watch: drain failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watch: fsnotify error")
		}
	}
}
