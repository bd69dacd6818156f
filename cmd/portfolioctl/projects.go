package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/princekumarofficial/portfolio-service/internal/services/content"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

var seedProjects = []types.CreateProjectRequest{
	{
		Title:        `Cortometraje "Amanecer"`,
		Category:     "Video",
		Description:  "Pieza audiovisual experimental que explora la relación entre la luz y la melancolía.",
		Tools:        []string{"Adobe Premiere Pro", "DaVinci Resolve", "Canon EOS R5"},
		ThumbnailURL: "https://picsum.photos/seed/amanecer/600/400",
	},
	{
		Title:        `Fotografía de Producto "Esencia"`,
		Category:     "Fotografía",
		Description:  "Serie fotográfica para una marca de cosméticos naturales, enfocada en la textura y la calidez.",
		Tools:        []string{"Adobe Photoshop", "Lightroom", "Sony A7III"},
		ThumbnailURL: "https://picsum.photos/seed/esencia/600/400",
	},
	{
		Title:        `Diseño Sonoro "Ciudad Latente"`,
		Category:     "Sonido",
		Description:  "Composición sonora que captura el pulso de la ciudad durante la noche.",
		Tools:        []string{"Ableton Live", "Pro Tools", "Zoom H6"},
		ThumbnailURL: "https://picsum.photos/seed/ciudad/600/400",
	},
	{
		Title:        `Video Institucional "Innovar"`,
		Category:     "Video",
		Description:  "Producción para una startup tecnológica, comunicando su visión y valores de forma dinámica.",
		Tools:        []string{"Adobe After Effects", "Premiere Pro"},
		ThumbnailURL: "https://picsum.photos/seed/innovar/600/400",
	},
	{
		Title:        `Videoclip "Ritmo Interior"`,
		Category:     "Video",
		Description:  "Dirección y montaje para el videoclip de un artista emergente, con foco en el storytelling visual.",
		Tools:        []string{"Final Cut Pro", "DaVinci Resolve"},
		ThumbnailURL: "https://picsum.photos/seed/ritmo/600/400",
	},
	{
		Title:        `Instalación Audiovisual "Memorias"`,
		Category:     "Instalación",
		Description:  "Proyecto inmersivo que combina video proyecciones y sonido envolvente.",
		Tools:        []string{"TouchDesigner", "Resolume Arena", "Ableton Live"},
		ThumbnailURL: "https://picsum.photos/seed/memorias/600/400",
	},
	{
		Title:        "Flyer Evento Musical",
		Category:     "Flyers",
		Description:  "Diseño de flyer para festival de música indie, enfocado en una estética vibrante y juvenil.",
		Tools:        []string{"Adobe Illustrator", "Adobe Photoshop"},
		ThumbnailURL: "https://picsum.photos/seed/flyer1/600/400",
	},
}

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the starter projects when the projects table is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.open(ctx, false); err != nil {
				return err
			}
			defer app.close()

			svc := app.content()
			existing, err := svc.ListProjects(ctx)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Printf("Skipping seed: %d project(s) already stored\n", len(existing))
				return nil
			}

			for _, req := range seedProjects {
				p, err := svc.CreateProject(ctx, req)
				if err != nil {
					return fmt.Errorf("seed %q: %w", req.Title, err)
				}
				fmt.Printf("Created project %d\t%s\n", p.ID, p.Title)
			}
			return nil
		},
	}
}

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect and remove projects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects with their media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.open(ctx, false); err != nil {
				return err
			}
			defer app.close()

			projects, err := app.content().ListProjects(ctx)
			if err != nil {
				return err
			}
			return printJSON(projects)
		},
	}

	var (
		id    int64
		title string
	)
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a project, its media rows and its stored files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (id == 0) == (title == "") {
				return errors.New("exactly one of --id or --title is required")
			}

			ctx := cmd.Context()
			if err := app.open(ctx, true); err != nil {
				return err
			}
			defer app.close()

			svc := app.content()
			if title != "" {
				found, err := findByTitle(cmd, svc, title)
				if err != nil {
					return err
				}
				id = found
			}

			result, err := svc.DeleteProject(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	del.Flags().Int64Var(&id, "id", 0, "project id")
	del.Flags().StringVar(&title, "title", "", "exact project title")

	cmd.AddCommand(list, del)
	return cmd
}

func findByTitle(cmd *cobra.Command, svc *content.Service, title string) (int64, error) {
	projects, err := svc.ListProjects(cmd.Context())
	if err != nil {
		return 0, err
	}

	var matches []int64
	for _, p := range projects {
		if strings.TrimSpace(p.Title) == strings.TrimSpace(title) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("no project titled %q", title)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("%d projects titled %q; use --id", len(matches), title)
	}
}
