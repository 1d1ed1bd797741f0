package similarity

import (
	"errors"
	"image"
	"math/rand"
	"testing"

	"lectern/internal/services"
)

func uniformGray(w, h int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func noiseGray(w, h int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func TestScoreIdenticalIsOne(t *testing.T) {
	img := noiseGray(64, 48, 1)
	score, err := Score(img, img)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score < 0.9999 || score > 1.0001 {
		t.Fatalf("expected score 1.0 for identical images, got %v", score)
	}
}

func TestScoreDistinctUniformImagesIsLow(t *testing.T) {
	a := uniformGray(64, 48, 10)
	b := uniformGray(64, 48, 200)
	score, err := Score(a, b)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score > 0.2 {
		t.Fatalf("expected low score for distinct uniform images, got %v", score)
	}
}

func TestScoreOrdersBySimilarity(t *testing.T) {
	base := uniformGray(64, 48, 100)
	near := uniformGray(64, 48, 105)
	far := uniformGray(64, 48, 240)

	nearScore, err := Score(base, near)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	farScore, err := Score(base, far)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if nearScore <= farScore {
		t.Fatalf("expected near score %v > far score %v", nearScore, farScore)
	}
}

func TestScoreShapeMismatch(t *testing.T) {
	a := uniformGray(64, 48, 0)
	b := uniformGray(48, 64, 0)
	if _, err := Score(a, b); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestScoreTinyImagesFallBackToGlobal(t *testing.T) {
	a := uniformGray(4, 4, 50)
	score, err := Score(a, a)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score < 0.9999 {
		t.Fatalf("expected 1.0 for identical tiny images, got %v", score)
	}
}

func TestReducePassesThroughNarrowImages(t *testing.T) {
	img := uniformGray(CompareWidth, 100, 7)
	if got := Reduce(img); got != img {
		t.Fatalf("expected pass-through for width <= CompareWidth")
	}
}

func TestReduceScalesProportionally(t *testing.T) {
	img := uniformGray(1280, 720, 33)
	got := Reduce(img)
	if got.Bounds().Dx() != CompareWidth {
		t.Fatalf("expected width %d, got %d", CompareWidth, got.Bounds().Dx())
	}
	if got.Bounds().Dy() != 180 {
		t.Fatalf("expected height 180, got %d", got.Bounds().Dy())
	}
	for i, v := range got.Pix {
		if v != 33 {
			t.Fatalf("pixel %d: area average of a uniform image must stay 33, got %d", i, v)
		}
	}
}

func TestReducePreservesSimilarityRelation(t *testing.T) {
	a := noiseGray(640, 360, 2)
	b := noiseGray(640, 360, 3)

	ra := Reduce(a)
	rb := Reduce(b)
	same, err := Score(ra, ra)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	diff, err := Score(ra, rb)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if same <= diff {
		t.Fatalf("expected self-similarity %v to exceed cross-similarity %v", same, diff)
	}
}
