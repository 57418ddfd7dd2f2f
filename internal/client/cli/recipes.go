package cli

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/urfave/cli/v3"

	"github.com/dmitrijs2005/recipebox/internal/client/client"
)

var (
	errMissingID     = errors.New("recipe id is required")
	errNothingToSend = errors.New("nothing to update, pass at least one field flag")
	errNoImage       = errors.New("recipe has no image")
)

func recipeFieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "recipe name"},
		&cli.StringFlag{Name: "description", Usage: "short description"},
		&cli.StringSliceFlag{Name: "ingredient", Aliases: []string{"i"}, Usage: "ingredient, repeat for each one"},
		&cli.StringFlag{Name: "instructions", Usage: "preparation steps"},
		&cli.StringFlag{Name: "image", Usage: "path to an image file to upload"},
	}
}

func (a *App) recipesCmd() *cli.Command {
	return &cli.Command{
		Name:    "recipes",
		Aliases: []string{"r"},
		Usage:   "Work with the recipe catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recipes, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1, Usage: "page number"},
					&cli.IntFlag{Name: "limit", Usage: "recipes per page (server default when omitted)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					page, err := a.api.ListRecipes(ctx, cmd.Int("page"), cmd.Int("limit"))
					if err != nil {
						return err
					}
					return a.print(page)
				},
			},
			{
				Name:      "get",
				Usage:     "Show one recipe",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					if id == "" {
						return errMissingID
					}
					rec, err := a.api.GetRecipe(ctx, id)
					if err != nil {
						return err
					}
					return a.print(rec)
				},
			},
			{
				Name:  "search",
				Usage: "Find recipes by name and ingredients",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "case-insensitive name fragment"},
					&cli.StringSliceFlag{Name: "ingredient", Aliases: []string{"i"}, Usage: "required ingredient, repeat for each one"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					found, err := a.api.SearchRecipes(ctx, cmd.String("name"), cmd.StringSlice("ingredient"))
					if err != nil {
						return err
					}
					return a.print(found)
				},
			},
			{
				Name:   "create",
				Usage:  "Add a recipe, prompting for any field not given as a flag",
				Flags:  recipeFieldFlags(),
				Action: a.createRecipe,
			},
			{
				Name:      "update",
				Usage:     "Change the given fields of a recipe",
				ArgsUsage: "<id>",
				Flags:     recipeFieldFlags(),
				Action:    a.updateRecipe,
			},
			{
				Name:      "image",
				Usage:     "Download the image of a recipe",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "destination file (default: the image file name in the current directory)"},
				},
				Action: a.downloadImage,
			},
			{
				Name:      "delete",
				Usage:     "Remove a recipe and its image",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
				},
				Action: a.deleteRecipe,
			},
		},
	}
}

func (a *App) createRecipe(ctx context.Context, cmd *cli.Command) error {
	in := client.RecipeInput{ImagePath: cmd.String("image")}

	var err error
	if in.Name, err = a.textField(cmd, "name", "Recipe name", false); err != nil {
		return err
	}
	if in.Description, err = a.textField(cmd, "description", "Description", false); err != nil {
		return err
	}
	if in.Ingredients = cmd.StringSlice("ingredient"); len(in.Ingredients) == 0 {
		if in.Ingredients, err = GetList(a.reader, "Ingredients", a.out); err != nil {
			return err
		}
	}
	if in.Instructions, err = a.textField(cmd, "instructions", "Instructions", true); err != nil {
		return err
	}

	rec, err := a.api.CreateRecipe(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recipe created successfully\n\n")
	return a.print(rec)
}

func (a *App) updateRecipe(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errMissingID
	}

	in := client.RecipeInput{ImagePath: cmd.String("image")}
	if cmd.IsSet("name") {
		in.Name = ptr(cmd.String("name"))
	}
	if cmd.IsSet("description") {
		in.Description = ptr(cmd.String("description"))
	}
	if cmd.IsSet("ingredient") {
		in.Ingredients = cmd.StringSlice("ingredient")
	}
	if cmd.IsSet("instructions") {
		in.Instructions = ptr(cmd.String("instructions"))
	}
	if in.Name == nil && in.Description == nil && in.Ingredients == nil && in.Instructions == nil && in.ImagePath == "" {
		return errNothingToSend
	}

	res, err := a.api.UpdateRecipe(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n\n", res.Message)
	return a.print(res)
}

func (a *App) deleteRecipe(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errMissingID
	}

	if !cmd.Bool("yes") {
		ok, err := Confirm(a.reader, fmt.Sprintf("Delete recipe %s?", id), a.out)
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(a.out, "Aborted")
			return err
		}
	}

	if err := a.api.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out, "Recipe deleted successfully")
	return err
}

func (a *App) downloadImage(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errMissingID
	}

	rec, err := a.api.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if rec.Image == "" {
		return errNoImage
	}

	dst := cmd.String("out")
	if dst == "" {
		dst = path.Base(rec.Image)
	}
	n, err := a.api.DownloadImage(ctx, rec.Image, dst)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", dst, n)
	return err
}

// textField takes the flag value when given, otherwise prompts for it.
func (a *App) textField(cmd *cli.Command, flag, prompt string, multiline bool) (*string, error) {
	if cmd.IsSet(flag) {
		return ptr(cmd.String(flag)), nil
	}

	read := GetSimpleText
	if multiline {
		read = GetMultiline
	}
	v, err := read(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func ptr[T any](v T) *T { return &v }
