package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/muesli/clusters"
	"golang.org/x/image/draw"
)

// ErrEmptyImage is returned when an image has no pixels to cluster.
var ErrEmptyImage = errors.New("image has no pixels")

// Options configures palette extraction.
type Options struct {
	// K is the number of colors to extract. Must be at least 1.
	K int

	// Resize downsamples images larger than Size x Size before clustering.
	// It bounds clustering cost and does not change what the palette means.
	Resize bool

	// Size is the edge length, in pixels, used when Resize is set.
	Size int

	// MaxIterations caps the number of refinement rounds.
	MaxIterations int
}

// DefaultOptions returns five colors, 256x256 downsampling and at most 300
// refinement rounds.
func DefaultOptions() Options {
	return Options{
		K:             5,
		Resize:        true,
		Size:          256,
		MaxIterations: 300,
	}
}

// Extractor turns an image into a Palette.
type Extractor interface {
	Extract(img image.Image, opt Options) (Palette, error)
}

// KMeans is the k-means Extractor.
type KMeans struct{}

// Extract implements Extractor by calling the package level Extract.
func (KMeans) Extract(img image.Image, opt Options) (Palette, error) {
	return Extract(img, opt)
}

// bin is one distinct pixel color together with how often it occurs.
// Clustering works on distinct colors weighted by their counts, which gives
// the same centroids as clustering every pixel.
type bin struct {
	point clusters.Coordinates
	key   uint32
	count int
}

// Coordinates implements clusters.Observation.
func (b bin) Coordinates() clusters.Coordinates {
	return b.point
}

// Distance implements clusters.Observation. It is the squared euclidean
// distance, as in clusters.Coordinates.
func (b bin) Distance(c clusters.Coordinates) float64 {
	return b.point.Distance(c)
}

// Extract clusters the pixels of img into opt.K groups and returns the
// centroid of each group, ordered by ascending luminance.
func Extract(img image.Image, opt Options) (Palette, error) {
	if opt.K < 1 {
		return nil, fmt.Errorf("palette size must be at least 1, got %d", opt.K)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if opt.MaxIterations <= 0 {
		opt.MaxIterations = DefaultOptions().MaxIterations
	}

	if opt.Resize {
		if opt.Size <= 0 {
			opt.Size = DefaultOptions().Size
		}
		img = downsample(img, opt.Size)
	}

	bins := histogram(img)
	if len(bins) == 0 {
		return nil, fmt.Errorf("%w: every pixel is transparent", ErrEmptyImage)
	}
	k := min(opt.K, len(bins))

	centers := seed(bins, k)
	centers = refine(bins, centers, opt.MaxIterations)

	p := make(Palette, 0, len(centers))
	for _, c := range centers {
		p = append(p, Color{
			R: channel(c.Center[0]),
			G: channel(c.Center[1]),
			B: channel(c.Center[2]),
		})
	}
	SortByLuminance(p)

	return p, nil
}

// downsample scales img to fit within size x size. Nearest-neighbour
// sampling is used so every sampled color is a real pixel color.
func downsample(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= size && bounds.Dy() <= size {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, min(size, bounds.Dx()), min(size, bounds.Dy())))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// histogram counts distinct colors of the visible pixels. Fully
// transparent pixels carry no color and are skipped. Bins are ordered by
// descending count, then by packed RGB value.
func histogram(img image.Image) []bin {
	bounds := img.Bounds()
	counts := make(map[uint32]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			counts[uint32(c.R)<<16|uint32(c.G)<<8|uint32(c.B)]++
		}
	}

	bins := make([]bin, 0, len(counts))
	for key, n := range counts {
		bins = append(bins, bin{
			point: clusters.Coordinates{
				float64(key >> 16 & 0xff),
				float64(key >> 8 & 0xff),
				float64(key & 0xff),
			},
			key:   key,
			count: n,
		})
	}
	slices.SortFunc(bins, func(a, b bin) int {
		if a.count != b.count {
			return b.count - a.count
		}
		if a.key < b.key {
			return -1
		}
		if a.key > b.key {
			return 1
		}
		return 0
	})

	return bins
}

// seed picks k initial centers with farthest-first traversal, starting from
// the most frequent color. Candidates are scored by squared distance to the
// nearest chosen center times their count, so large areas of a color win
// over single stray pixels.
func seed(bins []bin, k int) clusters.Clusters {
	cc := make(clusters.Clusters, 0, k)
	cc = append(cc, clusters.Cluster{Center: slices.Clone(bins[0].point)})

	nearest := make([]float64, len(bins))
	for i := range bins {
		nearest[i] = bins[i].Distance(cc[0].Center)
	}

	for len(cc) < k {
		best, bestScore := -1, -1.0
		for i := range bins {
			score := nearest[i] * float64(bins[i].count)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		center := slices.Clone(bins[best].point)
		cc = append(cc, clusters.Cluster{Center: center})
		for i := range bins {
			nearest[i] = min(nearest[i], bins[i].Distance(center))
		}
	}

	return cc
}

// refine runs Lloyd iterations until assignments stop changing or the
// iteration budget is spent. A cluster that loses all its members keeps
// its previous center.
func refine(bins []bin, cc clusters.Clusters, maxIterations int) clusters.Clusters {
	assignment := make([]int, len(bins))
	for i := range assignment {
		assignment[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i := range cc {
			cc[i].Observations = nil
		}
		for i := range bins {
			ci := cc.Nearest(bins[i])
			if ci != assignment[i] {
				assignment[i] = ci
				changed = true
			}
			cc[ci].Append(bins[i])
		}
		if !changed {
			break
		}

		for i := range cc {
			if center, ok := weightedCenter(cc[i].Observations); ok {
				cc[i].Center = center
			}
		}
	}

	return cc
}

func weightedCenter(obs clusters.Observations) (clusters.Coordinates, bool) {
	var sum [3]float64
	total := 0
	for _, o := range obs {
		b := o.(bin)
		for d := range sum {
			sum[d] += b.point[d] * float64(b.count)
		}
		total += b.count
	}
	if total == 0 {
		return nil, false
	}
	return clusters.Coordinates{
		sum[0] / float64(total),
		sum[1] / float64(total),
		sum[2] / float64(total),
	}, true
}

func channel(v float64) uint8 {
	return uint8(min(255, max(0, math.Round(v))))
}
