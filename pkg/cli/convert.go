package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/m-fukushima/mdbatch/pkg/cli/config"
	"github.com/m-fukushima/mdbatch/pkg/domain/model"
	"github.com/m-fukushima/mdbatch/pkg/infra/markdown"
	"github.com/m-fukushima/mdbatch/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdConvert() *cli.Command {
	var (
		convertCfg config.Convert
		outputDir  string
		zipPath    string
	)

	flags := append(convertCfg.Flags(),
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Directory to write .md files into",
			Value:       ".",
			Destination: &outputDir,
			Sources:     cli.EnvVars("MDBATCH_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "zip",
			Usage:       "Write a single ZIP archive to this path instead of .md files",
			Destination: &zipPath,
		},
	)

	return &cli.Command{
		Name:      "convert",
		Aliases:   []string{"c"},
		Usage:     "Convert PDF files from disk to Markdown",
		ArgsUsage: "<file.pdf> [file.pdf ...]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return goerr.New("no input files given")
			}

			files := make([]model.InputFile, 0, len(paths))
			for _, p := range paths {
				data, err := os.ReadFile(p)
				if err != nil {
					return goerr.Wrap(err, "failed to read input file", goerr.V("path", p))
				}
				files = append(files, model.InputFile{Name: filepath.Base(p), Data: data})
			}

			var engineOpts []markdown.Option
			if convertCfg.KeepImages {
				engineOpts = append(engineOpts, markdown.WithInlineImages())
			}
			convertUC, err := usecase.NewBatchConverter(markdown.New(engineOpts...))
			if err != nil {
				return goerr.Wrap(err, "failed to create batch converter")
			}

			started := time.Now()
			outcomes := convertUC.ConvertBatch(ctx, files, convertCfg.Concurrency)

			failed := 0
			for i := range outcomes {
				o := &outcomes[i]
				if o.Succeeded {
					fmt.Printf("converted: %s\n", o.Filename)
				} else {
					fmt.Printf("failed:    %s (%s)\n", o.Filename, o.Error)
					failed++
				}
			}

			if zipPath != "" {
				data, err := usecase.BuildArchive(outcomes)
				if err != nil {
					return goerr.Wrap(err, "failed to build archive")
				}
				if err := os.WriteFile(zipPath, data, 0644); err != nil {
					return goerr.Wrap(err, "failed to write archive", goerr.V("path", zipPath))
				}
			} else {
				if err := writeMarkdownFiles(outcomes, outputDir); err != nil {
					return err
				}
			}

			fmt.Printf("\nBatch summary: %d converted, %d failed (elapsed: %.1fs)\n",
				len(outcomes)-failed, failed, time.Since(started).Seconds())

			if failed > 0 {
				return goerr.New("some files failed to convert", goerr.V("failed", failed))
			}
			return nil
		},
	}
}

// writeMarkdownFiles writes each successful outcome as a .md file under dir.
func writeMarkdownFiles(outcomes []model.Outcome, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}
	for i := range outcomes {
		o := &outcomes[i]
		if !o.Succeeded {
			continue
		}
		path := filepath.Join(dir, o.MarkdownName())
		if err := os.WriteFile(path, []byte(o.Content), 0644); err != nil {
			return goerr.Wrap(err, "failed to write markdown file", goerr.V("path", path))
		}
	}
	return nil
}
