// Command seed resets the MongoDB quote collection and loads it with a
// sample data set for local development and demos.
package main

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/quoteshorts/api/internal/adapters/mongodb"
	"github.com/quoteshorts/api/internal/domain"
	"github.com/quoteshorts/api/internal/platform/config"
)

var sampleQuotes = []domain.Quote{
	{Text: "To live is the rarest thing in the world. Most people exist, that is all.", Author: "Oscar Wilde", Book: "Various Writings", Category: "life", Likes: 142},
	{Text: "It is never too late to be what you might have been.", Author: "George Eliot", Book: "Various Writings", Category: "inspiration", Likes: 98},
	{Text: "To be yourself in a world that is constantly trying to make you something else is the greatest accomplishment.", Author: "Ralph Waldo Emerson", Book: "Essays", Category: "self", Likes: 156},
	{Text: "There is some good in this world, and it's worth fighting for.", Author: "J.R.R. Tolkien", Book: "The Two Towers", Category: "hope", Likes: 203},
	{Text: "It is our choices that show what we truly are, far more than our abilities.", Author: "J.K. Rowling", Book: "Harry Potter and the Chamber of Secrets", Category: "wisdom", Likes: 187},
	{Text: "The worst enemy to creativity is self-doubt.", Author: "Sylvia Plath", Book: "The Unabridged Journals of Sylvia Plath", Category: "creativity", Likes: 134},
	{Text: "All we have to decide is what to do with the time that is given to us.", Author: "J.R.R. Tolkien", Book: "The Fellowship of the Ring", Category: "time", Likes: 167},
	{Text: "When you want something, all the universe conspires in helping you to achieve it.", Author: "Paulo Coelho", Book: "The Alchemist", Category: "dreams", Likes: 221},
	{Text: "It is better to be hated for what you are than to be loved for what you are not.", Author: "André Gide", Book: "Autumn Leaves", Category: "authenticity", Likes: 178},
	{Text: "Get busy living, or get busy dying.", Author: "Stephen King", Book: "Different Seasons", Category: "motivation", Likes: 145},
	{Text: "The goal isn't to live forever, the goal is to create something that will.", Author: "Chuck Palahniuk", Book: "Diary", Category: "legacy", Likes: 112},
	{Text: "Fear doesn't shut you down; it wakes you up.", Author: "Veronica Roth", Book: "Divergent", Category: "courage", Likes: 89},
	{Text: "Yes: I am a dreamer. For a dreamer is one who can only find his way by moonlight, and his punishment is that he sees the dawn before the rest of the world.", Author: "Oscar Wilde", Book: "The Critic as Artist", Category: "dreams", Likes: 156},
	{Text: "One day I will find the right words, and they will be simple.", Author: "Jack Kerouac", Book: "The Dharma Bums", Category: "writing", Likes: 134},
	{Text: "It sounds plausible enough tonight, but wait until tomorrow. Wait for the common sense of the morning.", Author: "H.G. Wells", Book: "The Time Machine", Category: "wisdom", Likes: 76},
	{Text: "Time is the longest distance between two places.", Author: "Tennessee Williams", Book: "The Glass Menagerie", Category: "time", Likes: 91},
	{Text: "Beauty was not simply something to behold; it was something one could do.", Author: "Toni Morrison", Book: "The Bluest Eye", Category: "beauty", Likes: 108},
	{Text: "You can't stay in your corner of the Forest waiting for others to come to you. You have to go to them sometimes.", Author: "A.A. Milne", Book: "Winnie-the-Pooh", Category: "friendship", Likes: 123},
	{Text: "Human speech is like a cracked kettle on which we tap crude rhythms for bears to dance to, while we long to make music that will melt the stars.", Author: "Gustave Flaubert", Book: "Madame Bovary", Category: "communication", Likes: 87},
	{Text: "It's a dangerous business, going out of your door.", Author: "J.R.R. Tolkien", Book: "The Lord of the Rings", Category: "adventure", Likes: 145},
	{Text: "Beware; for I am fearless, and therefore powerful.", Author: "Mary Shelley", Book: "Frankenstein", Category: "power", Likes: 132},
	{Text: "Both of them remained floating in an empty universe where the only everyday and eternal reality was love.", Author: "Gabriel García Márquez", Book: "One Hundred Years of Solitude", Category: "love", Likes: 167},
	{Text: "A reader lives a thousand lives before he dies. The man who never reads lives only one.", Author: "George R.R. Martin", Book: "A Dance with Dragons", Category: "reading", Likes: 198},
	{Text: "Books are a uniquely portable magic.", Author: "Stephen King", Book: "On Writing", Category: "books", Likes: 176},
	{Text: "Some books are so familiar that reading them is like being home again.", Author: "Louisa May Alcott", Book: "Little Women", Category: "comfort", Likes: 154},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	mongoCfg := cfg.Storage.Mongo
	if mongoCfg.URI == "" || mongoCfg.Database == "" {
		return fmt.Errorf("seeding requires storage.mongo.uri and storage.mongo.database")
	}

	timeout := mongoCfg.ConnectTimeout
	if timeout <= 0 {
		timeout = config.DefaultMongoTimeout
	}

	fmt.Println("connecting to mongodb...")

	client, err := mongodb.Connect(ctx, mongoCfg.URI, timeout)
	if err != nil {
		return fmt.Errorf("connecting to mongodb: %w", err)
	}

	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "disconnect error: %v\n", err)
		}
	}()

	collection := mongoCfg.Collection
	if collection == "" {
		collection = mongodb.DefaultCollection
	}

	col := client.Database(mongoCfg.Database).Collection(collection)

	fmt.Println("clearing existing quotes...")

	if _, err := col.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clearing quotes: %w", err)
	}

	repo := mongodb.NewRepository(col)

	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensuring indexes: %w", err)
	}

	fmt.Println("inserting sample quotes...")

	for i := range sampleQuotes {
		if _, err := repo.Insert(ctx, &sampleQuotes[i]); err != nil {
			return fmt.Errorf("inserting quote %d: %w", i, err)
		}
	}

	count, err := col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("counting quotes: %w", err)
	}

	fmt.Printf("seeded %d quotes\n", count)

	return nil
}
