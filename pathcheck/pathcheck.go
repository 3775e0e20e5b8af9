// Package pathcheck verifies the reference inputs a run depends on: the
// genome FASTA, its index files, and the optional exclusion BED. It also
// resolves BAM and BAI names from sample names and checks that every
// manifest sample has both.
package pathcheck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/svtargets"
	"github.com/carbocation/svtargets/config"
	"github.com/carbocation/svtargets/manifest"
)

// PathError reports a reference file that is missing or misnamed.
type PathError struct {
	Kind   string
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s file '%s': %s", e.Kind, e.Path, e.Reason)
}

// ExistsFunc reports whether a file exists.
type ExistsFunc func(path string) (bool, error)

// Checker resolves input paths from Config and checks them with Exists.
type Checker struct {
	Config *config.Config
	Exists ExistsFunc
}

// New returns a Checker that looks on the local filesystem, and in Google
// Storage for gs:// paths when client is not nil.
func New(cfg *config.Config, client *storage.Client) *Checker {
	return &Checker{
		Config: cfg,
		Exists: StorageExists(context.Background(), client),
	}
}

// StorageExists checks local paths with os.Stat and gs:// paths by fetching
// the object's attributes.
func StorageExists(ctx context.Context, client *storage.Client) ExistsFunc {
	return func(path string) (bool, error) {
		if !svtargets.IsGoogleStoragePath(path) {
			_, err := os.Stat(path)
			if os.IsNotExist(err) {
				return false, nil
			} else if err != nil {
				return false, pfx.Err(err)
			}
			return true, nil
		}

		if client == nil {
			return false, fmt.Errorf("%s: a google storage client is required to check gs:// paths", path)
		}

		bucket, object, err := svtargets.SplitGoogleStoragePath(path)
		if err != nil {
			return false, err
		}

		_, err = client.Bucket(bucket).Object(object).Attrs(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return false, nil
		} else if err != nil {
			return false, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}

		return true, nil
	}
}

// Fasta returns the reference genome path after checking that it exists and
// carries the registered FASTA extension.
func (c *Checker) Fasta() (string, error) {
	fname := c.Config.Genome
	sfx, err := c.Config.FileExt("fasta")
	if err != nil {
		return "", err
	}

	if err := c.mustExist("FASTA", fname); err != nil {
		return "", err
	}
	if !strings.HasSuffix(fname, sfx) {
		return "", &PathError{Kind: "FASTA", Path: fname, Reason: fmt.Sprintf("extension not registered (expected '%s')", sfx)}
	}

	return fname, nil
}

// FastaIndexes returns the index files (faidx, bwa) that sit next to the
// FASTA, one per registered fasta_idx extension.
func (c *Checker) FastaIndexes() ([]string, error) {
	fasta, err := c.Fasta()
	if err != nil {
		return nil, err
	}
	fastaSfx, err := c.Config.FileExt("fasta")
	if err != nil {
		return nil, err
	}
	idxSfxs, err := c.Config.FileExts("fasta_idx")
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(fasta, fastaSfx)
	faidx := make([]string, 0, len(idxSfxs))
	for _, sfx := range idxSfxs {
		fname := stem + sfx
		if err := c.mustExist("FASTA index", fname); err != nil {
			return nil, err
		}
		faidx = append(faidx, fname)
	}

	return faidx, nil
}

// ExclusionBED returns the BED of regions to exclude from calling.
func (c *Checker) ExclusionBED() (string, error) {
	fname := c.Config.ExclusionList
	sfx, err := c.Config.FileExt("bed")
	if err != nil {
		return "", err
	}

	if err := c.mustExist("Exclusion", fname); err != nil {
		return "", err
	}
	if !strings.HasSuffix(fname, sfx) {
		return "", &PathError{Kind: "Exclusion", Path: fname, Reason: fmt.Sprintf("must end with '%s' suffix", sfx)}
	}

	return fname, nil
}

// BAM appends the registered BAM extension to sample unless already present.
func (c *Checker) BAM(sample string) (string, error) {
	return c.withExt(sample, "bam")
}

// BAI appends the registered BAM index extension to sample unless already
// present.
func (c *Checker) BAI(sample string) (string, error) {
	return c.withExt(sample, "bam_idx")
}

// Alignments checks that the BAM and BAI of every sample named in records
// sit under the record's PATH, and returns the BAM paths in manifest order.
func (c *Checker) Alignments(records []manifest.SampleRecord) ([]string, error) {
	var bams []string
	for _, rec := range records {
		for _, sample := range []string{rec.Sample1, rec.Sample2} {
			if sample == "" {
				continue
			}
			stem := strings.TrimSuffix(rec.Path, "/") + "/" + sample

			bam, err := c.BAM(stem)
			if err != nil {
				return nil, err
			}
			if err := c.mustExist("BAM", bam); err != nil {
				return nil, err
			}

			bai, err := c.BAI(stem)
			if err != nil {
				return nil, err
			}
			if err := c.mustExist("BAM index", bai); err != nil {
				return nil, err
			}

			bams = append(bams, bam)
		}
	}

	return bams, nil
}

// Run checks the FASTA and its indexes, and the exclusion BED when regions
// are to be excluded.
func (c *Checker) Run() error {
	if _, err := c.FastaIndexes(); err != nil {
		return err
	}

	exclude, err := c.Config.ExcludeRegions()
	if err != nil {
		return err
	}
	if exclude {
		if _, err := c.ExclusionBED(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Checker) withExt(sample, format string) (string, error) {
	sfx, err := c.Config.FileExt(format)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(sample, sfx) {
		sample += sfx
	}

	return sample, nil
}

func (c *Checker) mustExist(kind, fname string) error {
	if fname == "" {
		return &PathError{Kind: kind, Path: fname, Reason: "no path given"}
	}

	ok, err := c.Exists(fname)
	if err != nil {
		return err
	}
	if !ok {
		return &PathError{Kind: kind, Path: fname, Reason: "not found"}
	}

	return nil
}
