// svtargets prints the VCF files an SV calling run is expected to produce,
// one path per line, for a workflow engine to use as its targets.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/svtargets"
	"github.com/carbocation/svtargets/compileinfo"
	"github.com/carbocation/svtargets/config"
	"github.com/carbocation/svtargets/manifest"
	"github.com/carbocation/svtargets/pathcheck"
)

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	var configFile, kind, format string
	var check, version bool
	flag.StringVar(&configFile, "config", "analysis.yaml", "Path to the analysis configuration (YAML).")
	flag.StringVar(&kind, "kind", KindOutputs, fmt.Sprintf("Which targets to print: '%s' (per-caller VCFs), '%s' (one all.vcf per sample), or '%s' (caller resource hints).", KindOutputs, KindMerged, KindResources))
	flag.StringVar(&format, "format", FormatLines, fmt.Sprintf("Output format: '%s' (one path per line) or '%s' (tab-delimited with a header).", FormatLines, FormatTSV))
	flag.BoolVar(&check, "check", false, "Check that the reference FASTA, its indexes, the exclusion BED (if enabled) and every sample's BAM and BAI exist.")
	flag.BoolVar(&version, "version", false, "Print build information and exit.")
	flag.Parse()

	if version {
		if err := compileinfo.Fprint(os.Stderr); err != nil {
			log.Fatalln(err)
		}
		return
	}

	if configFile == "" {
		flag.Usage()
		log.Fatalln("Must specify a --config file")
	}

	if !validKind(kind) || !validFormat(format) {
		flag.Usage()
		log.Fatalf("Unrecognized --kind '%s' or --format '%s'\n", kind, format)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalln(err)
	}

	// Every configuration error surfaces here, before any derivation.
	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}

	var client *storage.Client
	if needsStorageClient(cfg, check) {
		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	var checkRecords func([]manifest.SampleRecord) error
	if check {
		checker := pathcheck.New(cfg, client)
		if err := checker.Run(); err != nil {
			log.Fatalln(err)
		}
		checkRecords = func(records []manifest.SampleRecord) error {
			_, err := checker.Alignments(records)
			return err
		}
	}

	src := &svtargets.Opener{Client: client, Context: context.Background()}
	if err := run(cfg, src, kind, format, checkRecords, STDOUT); err != nil {
		log.Fatalln(err)
	}
}

func needsStorageClient(cfg *config.Config, check bool) bool {
	if svtargets.IsGoogleStoragePath(cfg.Samples) {
		return true
	}

	return check && (svtargets.IsGoogleStoragePath(cfg.Genome) || svtargets.IsGoogleStoragePath(cfg.ExclusionList))
}
