package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr        string
	MaxUploadMB int
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("MDBATCH_ADDR"),
		},
		&cli.IntFlag{
			Name:        "max-upload-mb",
			Usage:       "Maximum total upload size per request in MiB",
			Value:       200,
			Destination: &c.MaxUploadMB,
			Sources:     cli.EnvVars("MDBATCH_MAX_UPLOAD_MB"),
		},
	}
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Server) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
