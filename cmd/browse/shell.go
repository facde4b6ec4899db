package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookstore/internal/book"
	"bookstore/internal/query"
	"bookstore/internal/storefront"
)

const shellHelp = `commands:
  search [term]     search title or author (no term clears)
  genre <name>      toggle a genre filter
  stock in|out|any  toggle availability filter
  min <price>       set the lower price bound
  max <price>       set the upper price bound
  reset             clear search and filters
  next | prev       move one page
  page <n>          jump to page n
  show <id>         book details
  facets            genres, price bounds and availability
  reload            fetch the catalog again
  help | quit`

// shell is an interactive storefront session.
type shell struct {
	svc  *storefront.Service
	sess *storefront.Session
	p    *printer
}

func newShell(svc *storefront.Service, out io.Writer) *shell {
	return &shell{svc: svc, sess: svc.NewSession(), p: newPrinter(out)}
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	sh.show()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.p.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.p.out)
			return scanner.Err()
		}
		if quit := sh.exec(ctx, scanner.Text()); quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (sh *shell) show() {
	sh.p.view(sh.sess.View(), sh.sess.State())
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return false
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(sh.p.out, shellHelp)
		return false

	case "search", "s":
		sh.sess.Search(arg)
	case "genre", "g":
		if arg == "" {
			sh.sess.UpdateFilters(query.FilterUpdate{Genre: new(string)})
		} else {
			sh.sess.ToggleGenre(arg)
		}
	case "stock":
		stock, err := parseStockArg(arg)
		if err != nil {
			sh.p.errorf("%v", err)
			return false
		}
		if stock == query.StockAny {
			sh.sess.UpdateFilters(query.FilterUpdate{Stock: &stock})
		} else {
			sh.sess.ToggleStock(stock)
		}
	case "min", "max":
		price, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			sh.p.errorf("%s needs a number, got %q", cmd, arg)
			return false
		}
		if cmd == "min" {
			sh.sess.SetMinPrice(price)
		} else {
			sh.sess.SetMaxPrice(price)
		}
	case "reset":
		sh.sess.Reset()

	case "next", "n":
		if !sh.sess.Next() {
			sh.p.errorf("already on the last page")
			return false
		}
	case "prev", "p":
		if !sh.sess.Prev() {
			sh.p.errorf("already on the first page")
			return false
		}
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			sh.p.errorf("page needs a number, got %q", arg)
			return false
		}
		if !sh.sess.GoTo(n) {
			sh.p.errorf("no page %d to move to", n)
			return false
		}

	case "show":
		sh.showBook(ctx, arg)
		return false
	case "facets":
		sh.p.facets(sh.svc.Facets())
		return false
	case "reload":
		n, err := sh.svc.Load(ctx)
		if err != nil {
			sh.p.errorf("Failed to fetch books. Please try again. (%v)", err)
			return false
		}
		sh.sess.Refresh()
		fmt.Fprintf(sh.p.out, "loaded %d books\n", n)

	default:
		sh.p.errorf("unknown command %q, type help", cmd)
		return false
	}

	sh.show()
	return false
}

func (sh *shell) showBook(ctx context.Context, id string) {
	if id == "" {
		sh.p.errorf("show needs a book id")
		return
	}
	b, err := sh.svc.Book(ctx, id)
	switch {
	case errors.Is(err, book.ErrNotFound):
		sh.p.errorf("book %s not found", id)
	case err != nil:
		sh.p.errorf("Failed to fetch book details. Please try again. (%v)", err)
	default:
		sh.p.book(b)
	}
}

func parseStockArg(s string) (query.StockFilter, error) {
	switch strings.ToLower(s) {
	case "in":
		return query.StockInStock, nil
	case "out":
		return query.StockOutOfStock, nil
	}
	return query.ParseStockFilter(s)
}
