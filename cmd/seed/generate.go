package main

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"bookstore/internal/book"
)

var (
	genres = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	words  = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	firstNames = []string{"Ada", "Grace", "Alan", "Ursula", "Octavia", "Isaac", "Mary", "Jorge", "Toni", "Haruki"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Le Guin", "Butler", "Asimov", "Shelley", "Borges", "Morrison", "Murakami"}
)

// generateBooks builds n storefront books with ids "1".."n". The same rng
// seed yields the same catalog.
func generateBooks(n int, rng *rand.Rand) []book.Book {
	books := make([]book.Book, 0, n)
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i + 1)
		genre := genres[rng.Intn(len(genres))]
		title := fmt.Sprintf("The %s of %s", pick(rng, words), pick(rng, words))

		books = append(books, book.Book{
			ID:          id,
			Title:       title,
			Author:      pick(rng, firstNames) + " " + pick(rng, lastNames),
			Genre:       genre,
			Price:       roundTo(4.99+rng.Float64()*75, 2),
			InStock:     rng.Intn(5) != 0,
			Rating:      roundTo(1+rng.Float64()*4, 1),
			ReviewCount: rng.Intn(2500),
			Thumbnail:   "https://picsum.photos/seed/book" + id + "/300/450",
			Description: fmt.Sprintf("A %s book about %s.", genre, pick(rng, words)),
		})
	}
	return books
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
