package config

import "github.com/urfave/cli/v3"

// Convert holds conversion pipeline configuration
type Convert struct {
	Concurrency int
	KeepImages  bool
}

// Flags returns CLI flags for conversion configuration
func (c *Convert) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "concurrency",
			Aliases:     []string{"j"},
			Usage:       "Number of files to convert in parallel (1-8)",
			Value:       4,
			Destination: &c.Concurrency,
			Sources:     cli.EnvVars("MDBATCH_CONCURRENCY"),
		},
		&cli.BoolFlag{
			Name:        "keep-images",
			Usage:       "Keep embedded base64 images in the Markdown output",
			Value:       false,
			Destination: &c.KeepImages,
			Sources:     cli.EnvVars("MDBATCH_KEEP_IMAGES"),
		},
	}
}
