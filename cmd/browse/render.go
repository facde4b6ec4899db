package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bookstore/internal/book"
	"bookstore/internal/query"

	"github.com/fatih/color"
)

type printer struct {
	out     io.Writer
	heading *color.Color
	muted   *color.Color
	good    *color.Color
	bad     *color.Color
	accent  *color.Color
}

func newPrinter(out io.Writer) *printer {
	return &printer{
		out:     out,
		heading: color.New(color.Bold),
		muted:   color.New(color.Faint),
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
		accent:  color.New(color.FgCyan),
	}
}

func (p *printer) stock(inStock bool) string {
	if inStock {
		return p.good.Sprint("in stock")
	}
	return p.bad.Sprint("out of stock")
}

// view prints one page of results followed by the pager.
func (p *printer) view(v query.View, st query.State) {
	if f := describeFilters(st); f != "" {
		fmt.Fprintln(p.out, p.muted.Sprint("filters: "+f))
	}

	if len(v.Items) == 0 {
		fmt.Fprintln(p.out, p.heading.Sprint("No books found"))
		switch {
		case v.TotalResults > 0:
			fmt.Fprintf(p.out, "Page %d is past the last page (%d)\n", v.CurrentPage, v.TotalPages)
		case hasActiveFilters(st):
			fmt.Fprintln(p.out, "Try adjusting your search or filters")
		default:
			fmt.Fprintln(p.out, "No books available at the moment")
		}
		return
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tPRICE\tRATING\tSTOCK")
	for _, b := range v.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.2f\t%.1f\t%s\n",
			b.ID, truncate(b.Title, 40), truncate(b.Author, 24), b.Genre, b.Price, b.Rating, p.stock(b.InStock))
	}
	_ = tw.Flush()

	fmt.Fprintf(p.out, "Showing %d to %d of %d results\n", v.FirstItem(), v.LastItem(), v.TotalResults)
	if v.TotalPages > 1 {
		fmt.Fprintln(p.out, p.pager(query.PageWindow(v.CurrentPage, v.TotalPages)))
	}
}

func (p *printer) pager(links []query.PageLink) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		switch {
		case l.Gap:
			parts = append(parts, "…")
		case l.Current:
			parts = append(parts, p.accent.Sprintf("[%d]", l.Number))
		default:
			parts = append(parts, fmt.Sprint(l.Number))
		}
	}
	return strings.Join(parts, " ")
}

func (p *printer) book(b book.Book) {
	fmt.Fprintln(p.out, p.heading.Sprint(b.Title))
	fmt.Fprintf(p.out, "by %s\n", b.Author)
	fmt.Fprintf(p.out, "%s  %.1f (%d reviews)\n", p.accent.Sprint(b.Genre), b.Rating, b.ReviewCount)
	fmt.Fprintf(p.out, "$%.2f  %s\n", b.Price, p.stock(b.InStock))
	if b.Description != "" {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, b.Description)
	}
}

func (p *printer) facets(f query.Facets) {
	fmt.Fprintln(p.out, p.heading.Sprint("Genres"))
	for _, g := range f.Genres {
		fmt.Fprintf(p.out, "  %s\n", g)
	}
	fmt.Fprintf(p.out, "%s $%.0f to $%.0f\n", p.heading.Sprint("Price"), f.PriceBounds.Min, f.PriceBounds.Max)
	fmt.Fprintf(p.out, "%s %d in stock, %d out of stock\n",
		p.heading.Sprint("Availability"), f.Availability.InStock, f.Availability.OutOfStock)
}

func (p *printer) errorf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.bad.Sprintf(format, args...))
}

func hasActiveFilters(st query.State) bool {
	return st.SearchTerm != "" || st.Genre != "" || st.Stock != query.StockAny
}

func describeFilters(st query.State) string {
	var parts []string
	if st.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("search=%q", st.SearchTerm))
	}
	if st.Genre != "" {
		parts = append(parts, "genre="+st.Genre)
	}
	if st.Stock != query.StockAny {
		parts = append(parts, "stock="+st.Stock.String())
	}
	parts = append(parts, fmt.Sprintf("price=%g-%g", st.PriceRange.Min, st.PriceRange.Max))
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
