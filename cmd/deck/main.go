package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/GiovanniAiello/deck.gl/internal/server"
	"github.com/GiovanniAiello/deck.gl/pkg/proj"
)

// Options defines all CLI flags and env vars for the deck server.
// Flags: --host, --port, --data-dir
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR
type Options struct {
	Host    string `doc:"Host to bind to" default:"0.0.0.0"`
	Port    int    `doc:"Port to listen on" short:"p" default:"8087"`
	DataDir string `doc:"Directory for descriptors and layer data" default:".data"`
}

func newServer(opts *Options) *server.Server {
	return server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		DataDir: opts.DataDir,
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv := newServer(opts)

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("deck API server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Data:    %s\n", opts.DataDir)
			fmt.Println()
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})
	})

	cli.Root().Use = "deck"
	cli.Root().Short = "Layer update and coordinate projection core"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts)
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Root().AddCommand(newProjectCmd())

	cli.Run()
}

// newProjectCmd builds the one-shot projection subcommand: project a
// position through a viewport described by flags and print the screen
// coordinates as JSON.
func newProjectCmd() *cobra.Command {
	var (
		lng, lat, zoom float64
		width, height  int
		pitch, bearing float64
		posLng, posLat float64
		inverse, flat  bool
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project a position through a viewport (--inverse to unproject)",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := proj.NewViewport(proj.ViewportConfig{
				Center:      orb.Point{lng, lat},
				Zoom:        zoom,
				Width:       width,
				Height:      height,
				Perspective: pitch != 0,
				Pitch:       pitch,
				Bearing:     bearing,
			})
			if err != nil {
				return err
			}

			pos := proj.XY(posLng, posLat)
			var out proj.Position
			switch {
			case inverse && flat:
				out, err = proj.UnprojectFlat(pos, v, nil)
			case inverse:
				out, err = proj.Unproject(pos, v, nil)
			case flat:
				out, err = proj.ProjectFlat(pos, v, proj.NewLngLat(), nil, nil)
			default:
				out, err = proj.Project(pos, v, proj.NewLngLat(), nil, nil)
			}
			if err != nil {
				return err
			}

			output, err := json.Marshal(map[string]any{"position": out[:]})
			if err != nil {
				return err
			}
			fmt.Println(string(output))
			return nil
		},
	}

	cmd.Flags().Float64Var(&lng, "lng", 0, "Viewport center longitude")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Viewport center latitude")
	cmd.Flags().Float64Var(&zoom, "zoom", 12, "Mercator zoom level")
	cmd.Flags().IntVar(&width, "width", 800, "Viewport width in pixels")
	cmd.Flags().IntVar(&height, "height", 600, "Viewport height in pixels")
	cmd.Flags().Float64Var(&pitch, "pitch", 0, "Camera tilt in degrees")
	cmd.Flags().Float64Var(&bearing, "bearing", 0, "Map rotation in degrees")
	cmd.Flags().Float64Var(&posLng, "x", 0, "Position x (longitude, or screen x with --inverse)")
	cmd.Flags().Float64Var(&posLat, "y", 0, "Position y (latitude, or screen y with --inverse)")
	cmd.Flags().BoolVar(&inverse, "inverse", false, "Unproject screen coordinates to a geographic position")
	cmd.Flags().BoolVar(&flat, "flat", false, "Ignore the viewport's tilt contribution")

	return cmd
}
