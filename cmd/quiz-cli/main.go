package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"quizboard/internal/cli"
	"quizboard/internal/opentdb"
	"quizboard/internal/quiz"
	"quizboard/internal/store/sqlite"
	"quizboard/internal/streak"
	"quizboard/internal/tracker"
)

func main() {
	dbPath := flag.String("db", "quizboard-cli.db", "local sqlite file holding your results")
	user := flag.String("user", "local", "user id the results are recorded under")
	timezone := flag.String("tz", "", "timezone for streak days (IANA name or UTC offset)")
	trivia := flag.Int("trivia", 0, "import this many OpenTriviaDB questions as a trivia category")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *dbPath, *user, *timezone, *trivia); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dbPath, user, timezone string, trivia int) error {
	loc, err := streak.ParseLocation(timezone)
	if err != nil {
		return err
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	catalog, err := quiz.DefaultCatalog()
	if err != nil {
		return err
	}

	client := opentdb.NewClient(&http.Client{Timeout: 10 * time.Second})
	quizzes := quiz.NewService(catalog, db, func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error) {
		return client.FetchQuestions(ctx, opentdb.Query{Amount: amount})
	})
	if _, err := quizzes.Restore(ctx); err != nil {
		return err
	}
	if trivia > 0 {
		if _, err := quizzes.ImportTrivia(ctx, trivia); err != nil {
			return err
		}
	}

	clock := streak.NewSystemClock(loc)
	results := tracker.NewService(db, db, quizzes, clock)
	return cli.NewApp(quizzes, results, user, clock.Now).Run(ctx, os.Stdin, os.Stdout)
}
