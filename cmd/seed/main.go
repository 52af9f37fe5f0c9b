// Package main seeds a fresh database with a demo book club.
//
// It creates two users, two groups sharing both members, and the full category list
// with generated placeholder covers. "Kryminał" is the active category and
// "Powieść przygodowa" was picked in an earlier round; both get a book and opinions.
//
// Usage:
//
//	go run ./cmd/seed --data-path ~/BookClub
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/samber/do/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bookclubapp/bookclub-server/internal/di"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/logger"
	"github.com/bookclubapp/bookclub-server/internal/service"
	"github.com/bookclubapp/bookclub-server/internal/slug"
)

const demoPassword = "testtest"

var categoryNames = []string{
	"Astronomia", "Bajka", "Baśnie", "Biografia", "Biznes/Finanse", "Dramat", "Erotyka",
	"Eseje", "Etyka", "Fantasy", "Filozofia", "Flora i fauna", "Historia",
	"Historie biblijne", "Horror", "Informatyka", "Klasyka", "Komedia", "Komiksy",
	"Kryminał", "Legendy", "Literatura popularno-naukowa", "Językoznawstwo",
	"Literatura młodzieżowa", "Literatura obyczajowa", "Literatura piękna",
	"Literatura podróżnicza", "Manga", "Matematyka", "Medycyna", "Mitologia",
	"Motoryzacja", "Nauki przyrodnicze", "Nauki społeczne", "Opowiadania", "Pamiętniki",
	"Poezja", "Poradniki", "Poradniki rodzicielskie", "Powieść historyczna",
	"Powieść przygodowa", "Religia", "Reportaż", "Romans", "Rozwój osobisty", "Satyra",
	"Science Fiction", "Sensacja", "Sport", "Technika", "Thriller", "Tragedia",
	"Utwór dramatyczny", "Wierszyki/Piosenki", "Zdrowie",
}

const (
	activeCategory = "Kryminał"
	pickedCategory = "Powieść przygodowa"
)

// services bundles what the seeder drives.
type services struct {
	auth     *service.AuthService
	group    *service.GroupService
	category *service.CategoryService
	book     *service.BookService
	opinion  *service.OpinionService
	image    *service.ImageService
}

func main() {
	injector := di.NewContainer()
	defer func() { _ = injector.Shutdown() }()

	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	svc, err := resolve(injector)
	if err != nil {
		log.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	if err := seed(context.Background(), svc); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			log.Warn("Database already seeded", "error", err)
			return
		}
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	log.Info("Database has been seeded", "users", 2, "categories", len(categoryNames))
}

func resolve(i do.Injector) (*services, error) {
	var (
		s   services
		err error
	)
	if s.auth, err = do.Invoke[*service.AuthService](i); err != nil {
		return nil, err
	}
	if s.group, err = do.Invoke[*service.GroupService](i); err != nil {
		return nil, err
	}
	if s.category, err = do.Invoke[*service.CategoryService](i); err != nil {
		return nil, err
	}
	if s.book, err = do.Invoke[*service.BookService](i); err != nil {
		return nil, err
	}
	if s.opinion, err = do.Invoke[*service.OpinionService](i); err != nil {
		return nil, err
	}
	if s.image, err = do.Invoke[*service.ImageService](i); err != nil {
		return nil, err
	}
	return &s, nil
}

func seed(ctx context.Context, s *services) error {
	first, err := s.auth.Signup(ctx, service.SignupRequest{Email: "test1@o2.pl", Name: "Dżusio", Password: demoPassword})
	if err != nil {
		return fmt.Errorf("first user: %w", err)
	}
	second, err := s.auth.Signup(ctx, service.SignupRequest{Email: "test2@o2.pl", Name: "Adka", Password: demoPassword})
	if err != nil {
		return fmt.Errorf("second user: %w", err)
	}
	owner := first.User.ID

	group, err := s.group.Create(ctx, owner, service.GroupRequest{Name: "DżusioAdkowaGrupa", Slug: "dzusio-adkowa-grupa"})
	if err != nil {
		return fmt.Errorf("group: %w", err)
	}
	if _, err := s.group.AddMember(ctx, owner, group.Slug, service.AddMemberRequest{Email: second.User.Email}); err != nil {
		return fmt.Errorf("add member: %w", err)
	}

	other, err := s.group.Create(ctx, second.User.ID, service.GroupRequest{Name: "AdkowoDzusiowaGrupa", Slug: "adkowo-dzusiowa-grupa"})
	if err != nil {
		return fmt.Errorf("second group: %w", err)
	}
	if _, err := s.group.AddMember(ctx, second.User.ID, other.Slug, service.AddMemberRequest{Email: first.User.Email}); err != nil {
		return fmt.Errorf("add member: %w", err)
	}

	slugs := make(map[string]string, len(categoryNames))
	for i, name := range categoryNames {
		cover, err := placeholder(name, i)
		if err != nil {
			return fmt.Errorf("placeholder for %q: %w", name, err)
		}
		img, err := s.image.UploadShared(ctx, service.UploadRequest{Data: cover, AltText: name})
		if err != nil {
			return fmt.Errorf("image for %q: %w", name, err)
		}
		category, err := s.category.Create(ctx, owner, group.Slug, service.CategoryRequest{
			Name:    name,
			Slug:    slug.Suggest(name),
			ImageID: img.ID,
		})
		if err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
		slugs[name] = category.Slug
	}

	readers := []string{owner, second.User.ID}
	rates := []int{1, 4, 7, 10}
	now := time.Now().UTC().Truncate(24 * time.Hour)

	// The picked round ran before the active one.
	rounds := []struct {
		name  string
		start time.Time
		stay  bool
	}{
		{pickedCategory, now.AddDate(0, 0, -14), false},
		{activeCategory, now, true},
	}
	for r, round := range rounds {
		categorySlug := slugs[round.name]
		if _, err := s.category.Activate(ctx, owner, group.Slug, categorySlug); err != nil {
			return fmt.Errorf("activate %q: %w", round.name, err)
		}

		book, err := s.book.Create(ctx, owner, group.Slug, categorySlug, service.BookRequest{
			Title:     fmt.Sprintf("RandomBook %d", r+1),
			Author:    "Random",
			DateStart: round.start,
			DateEnd:   round.start.AddDate(0, 0, 14),
		})
		if err != nil {
			return fmt.Errorf("book for %q: %w", round.name, err)
		}

		for u, reader := range readers {
			rate := rates[r*len(readers)+u]
			if _, err := s.opinion.Add(ctx, reader, group.Slug, service.OpinionRequest{
				Rate:        &rate,
				Description: "Random",
				BookID:      book.ID,
			}); err != nil {
				return fmt.Errorf("opinion on %q: %w", book.Title, err)
			}
		}

		if !round.stay {
			if _, err := s.category.Deactivate(ctx, owner, group.Slug, categorySlug); err != nil {
				return fmt.Errorf("deactivate %q: %w", round.name, err)
			}
		}
	}

	return nil
}

// placeholder renders a small cover: a tinted background with the category's initial.
func placeholder(name string, index int) ([]byte, error) {
	const w, h = 120, 160

	hue := uint8(index * 47)
	bg := color.RGBA{R: 80 + hue/3, G: 60 + (255-hue)/4, B: 120 + hue/5, A: 255}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	initial := strings.ToUpper(slug.Suggest(name)[:1])
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(w/2-3, h/2+4),
	}
	d.DrawString(initial)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
