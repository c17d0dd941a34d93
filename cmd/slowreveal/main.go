/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"slowreveal/internal/config"
	"slowreveal/internal/crash"
	"slowreveal/internal/domain"
	"slowreveal/internal/export"
	applog "slowreveal/internal/log"
	"slowreveal/internal/storage"
	"slowreveal/internal/telemetry"
	"slowreveal/internal/ui"
	"slowreveal/internal/version"
)

func usage() {
	fmt.Println("Slow Reveal Builder")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  slowreveal version|-v|--version                Show version")
	fmt.Println("  slowreveal init <dir> <imageURL> <title>       Create a new project at <dir>")
	fmt.Println("  slowreveal open <dir>                          Open project at <dir> and print summary")
	fmt.Println("  slowreveal save <dir>                          Re-save the manifest, creating a backup")
	fmt.Println("  slowreveal export <dir>                        Render the embeddable HTML into <dir>/exports")
	fmt.Println("  slowreveal storyboard <dir>                    Render the storyboard PDF into <dir>/exports")
	fmt.Println("  slowreveal validate <dir>                      Check the project manifest against the schema")
	fmt.Println("  slowreveal ui [<dir>]                          Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Slow Reveal Builder")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 5 {
				fmt.Println("init requires <dir>, <imageURL> and <title>")
				usage()
				os.Exit(2)
			}
			dir, image, title := args[2], args[3], args[4]
			abs, _ := filepath.Abs(dir)
			l.Info("init project", slog.String("root", abs), slog.String("title", title))
			p := domain.NewProject(image, title, 0)
			h, err := storage.InitProject(abs, p)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			fmt.Println("Created project at", abs)
			return
		case "open":
			h := mustOpen(l, args)
			ph = h
			fmt.Printf("Opened project: %s\n", h.Project.Title)
			fmt.Printf("Image: %s\n", h.Project.Image)
			fmt.Printf("Slides: %d\n", len(h.Project.Slides))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			h := mustOpen(l, args)
			ph = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved", h.ManifestPath)
			return
		case "export":
			h := mustOpen(l, args)
			ph = h
			if len(h.Project.Slides) == 0 {
				fmt.Println("Error: project has no slides to export")
				os.Exit(1)
			}
			cfg, _ := config.Load()
			outDir, err := h.ExportsDir(cfg.Export.OutDir)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			outPath := filepath.Join(outDir, "index.html")
			html := export.HTML(h.Project)
			if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			telemetry.Export("html", len(h.Project.Slides))
			fmt.Println("Wrote", outPath)
			return
		case "storyboard":
			h := mustOpen(l, args)
			ph = h
			cfg, _ := config.Load()
			outDir, err := h.ExportsDir(cfg.Export.OutDir)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			outPath := filepath.Join(outDir, "storyboard.pdf")
			if err := export.ExportStoryboardPDF(h.Project, outPath, export.PDFOptions{}); err != nil {
				l.Error("storyboard export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			telemetry.Export("pdf", len(h.Project.Slides))
			fmt.Println("Wrote", outPath)
			return
		case "validate":
			h := mustOpen(l, args)
			ph = h
			data, err := os.ReadFile(h.ManifestPath)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := storage.ValidateManifest(data); err != nil {
				fmt.Println("Invalid:", err)
				os.Exit(1)
			}
			fmt.Println("Manifest is valid.")
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func mustOpen(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 3 {
		fmt.Printf("%s requires <dir>\n", args[1])
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	l.Info("open project", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}
