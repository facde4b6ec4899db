package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bookstore/internal/catalog"
	"bookstore/internal/config"
	"bookstore/internal/platform/logger"
	"bookstore/internal/query"
	"bookstore/internal/storefront"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "browse",
		Usage: "search, filter and page through the book catalog from a terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Usage: "catalog source: http or postgres", EnvVars: []string{"CATALOG_SOURCE"}},
			&cli.StringFlag{Name: "api-url", Usage: "catalog endpoint base URL", EnvVars: []string{"BOOKS_API_URL"}},
			&cli.IntFlag{Name: "per-page", Usage: "books per page", EnvVars: []string{"ITEMS_PER_PAGE"}},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log catalog activity"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "print one page of books",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Usage: "title or author substring"},
					&cli.StringFlag{Name: "genre", Usage: "exact genre"},
					&cli.Float64Flag{Name: "min-price", Usage: "lower price bound"},
					&cli.Float64Flag{Name: "max-price", Usage: "upper price bound"},
					&cli.StringFlag{Name: "stock", Usage: "in_stock or out_of_stock"},
					&cli.IntFlag{Name: "page", Value: 1, Usage: "page number"},
				},
				Action: withService(listAction),
			},
			{
				Name:      "show",
				Usage:     "print the details of one book",
				ArgsUsage: "<id>",
				Action:    withService(showAction),
			},
			{
				Name:   "facets",
				Usage:  "print genres, price bounds and availability",
				Action: withService(facetsAction),
			},
			{
				Name:    "shell",
				Aliases: []string{"repl"},
				Usage:   "browse interactively",
				Action:  withService(shellAction),
			},
		},
	}
}

type serviceAction func(c *cli.Context, svc *storefront.Service) error

// withService opens the configured catalog, loads it and hands the service
// to action.
func withService(action serviceAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg := config.Load()
		if c.IsSet("source") {
			cfg.Catalog.Source = c.String("source")
		}
		if c.IsSet("api-url") {
			cfg.Catalog.BaseURL = c.String("api-url")
		}
		if c.IsSet("per-page") {
			cfg.Catalog.ItemsPerPage = c.Int("per-page")
		}

		log := zap.NewNop()
		if c.Bool("verbose") {
			log = logger.New(logger.Options{FilePath: cfg.App.LogFilePath})
		}
		defer func() { _ = log.Sync() }()

		source, closeSource, err := catalog.Open(c.Context, cfg, log)
		if err != nil {
			return err
		}
		defer closeSource()

		svc := storefront.NewService(source, cfg.Catalog.ItemsPerPage, cfg.Catalog.DetailCacheTTL, log)
		if _, err := svc.Load(c.Context); err != nil {
			return err
		}
		return action(c, svc)
	}
}

func listAction(c *cli.Context, svc *storefront.Service) error {
	stock, err := query.ParseStockFilter(c.String("stock"))
	if err != nil {
		return err
	}

	p := storefront.Params{
		Search: c.String("q"),
		Genre:  c.String("genre"),
		Stock:  stock,
		Page:   c.Int("page"),
	}
	if c.IsSet("min-price") {
		v := c.Float64("min-price")
		p.MinPrice = &v
	}
	if c.IsSet("max-price") {
		v := c.Float64("max-price")
		p.MaxPrice = &v
	}

	view, state := svc.Browse(p)
	newPrinter(c.App.Writer).view(view, state)
	return nil
}

func showAction(c *cli.Context, svc *storefront.Service) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("show needs a book id", 2)
	}
	sh := newShell(svc, c.App.Writer)
	sh.showBook(c.Context, id)
	return nil
}

func facetsAction(c *cli.Context, svc *storefront.Service) error {
	newPrinter(c.App.Writer).facets(svc.Facets())
	return nil
}

func shellAction(c *cli.Context, svc *storefront.Service) error {
	return newShell(svc, c.App.Writer).run(c.Context, os.Stdin)
}
