package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-acquire-storage/internal/config"
	"github.com/robert-malhotra/go-acquire-storage/storage"
)

const codeFlagInvalid storage.Code = "cli.flag.invalid"

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print storagecfg version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "storagecfg %s (commit: %s, built: %s)\n", version, commit, date)
			return err
		},
	}
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the storage properties are ready for a writer",
		Long: "Load the configuration, build the storage properties and check their layout. " +
			"Capability flags describe what the target storage driver supports.",
		RunE: runValidate,
	}

	cmd.Flags().Bool("chunking", true, "driver supports chunking")
	cmd.Flags().Bool("sharding", true, "driver supports sharding")
	cmd.Flags().Bool("multiscale", true, "driver supports multiscale")
	cmd.Flags().Uint32("max-chunk-px", 0, "largest chunk extent the driver accepts (0 = no limit)")
	cmd.Flags().Uint32("max-shard-chunks", 0, "largest shard extent the driver accepts (0 = no limit)")

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	props, err := loadProperties(cmd)
	if err != nil {
		return err
	}
	defer props.Destroy()

	if err := props.Validate(); err != nil {
		return err
	}
	if err := props.CheckSupport(driverCapabilities(cmd)); err != nil {
		return err
	}

	appendDim, err := props.Dimensions.Get(props.AppendDimension)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%d dimensions, appending along %s)\n",
		props.Filename.String(), props.Dimensions.Count(), appendDim.Name.String())
	return err
}

func driverCapabilities(cmd *cobra.Command) storage.PropertyMetadata {
	chunking, _ := cmd.Flags().GetBool("chunking")
	sharding, _ := cmd.Flags().GetBool("sharding")
	multiscale, _ := cmd.Flags().GetBool("multiscale")
	maxChunk, _ := cmd.Flags().GetUint32("max-chunk-px")
	maxShard, _ := cmd.Flags().GetUint32("max-shard-chunks")

	meta := storage.PropertyMetadata{Multiscale: multiscale}
	if chunking {
		meta.ChunkSize = storage.Capability{Supported: true, Min: 1, Max: maxChunk}
	}
	if sharding {
		meta.ShardSizeChunks = storage.Capability{Supported: true, Min: 1, Max: maxShard}
	}
	return meta
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			props, err := loadProperties(cmd)
			if err != nil {
				return err
			}
			defer props.Destroy()

			out, err := config.Encode(props)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newGeometryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Print the chunk and shard layout",
		RunE:  runGeometry,
	}

	cmd.Flags().Uint64("bytes-per-pixel", 1, "size of one pixel in bytes")
	cmd.Flags().Int64("frame", -1, "also print the chunk this frame lands in")

	return cmd
}

func runGeometry(cmd *cobra.Command, _ []string) error {
	bpp, _ := cmd.Flags().GetUint64("bytes-per-pixel")
	frame, _ := cmd.Flags().GetInt64("frame")
	if bpp == 0 {
		return oops.In("cli").Code(codeFlagInvalid).Errorf("--bytes-per-pixel must be positive")
	}

	props, err := loadProperties(cmd)
	if err != nil {
		return err
	}
	defer props.Destroy()

	g, err := props.Geometry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	chunks, shards := g.ChunkCounts(), g.ShardCounts()

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "AXIS\tARRAY\tCHUNK\tSHARD\tCHUNKS\tSHARDS")
	for i, ax := range g.Axes() {
		name := ax.Name
		if i == g.AppendAxis() {
			name += "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			name, extent(ax.ArraySize), ax.ChunkSize, ax.ShardSize, extent(chunks[i]), extent(shards[i]))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	total := "unbounded"
	if n, ok := g.TotalChunks(); ok {
		total = strconv.FormatUint(n, 10)
	}
	_, _ = fmt.Fprintf(out, "\nframe bytes:       %d\n", g.FrameBytes(bpp))
	_, _ = fmt.Fprintf(out, "chunk bytes:       %d\n", g.ChunkBytes(bpp))
	_, _ = fmt.Fprintf(out, "shard bytes:       %d\n", g.ShardBytes(bpp))
	_, _ = fmt.Fprintf(out, "chunks per shard:  %d\n", g.ChunksPerShard())
	_, _ = fmt.Fprintf(out, "frames per step:   %d\n", g.FramesPerAppendStep())
	_, _ = fmt.Fprintf(out, "total chunks:      %s\n", total)

	if frame < 0 {
		return nil
	}
	chunk, err := g.FrameChunk(uint64(frame))
	if err != nil {
		return err
	}
	chunkIndex, err := g.ChunkIndex(chunk)
	if err != nil {
		return err
	}
	shard, err := g.ShardOf(chunk)
	if err != nil {
		return err
	}
	shardIndex, err := g.ShardIndex(shard)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "frame %d: chunk %s (index %d), shard %s (index %d)\n",
		frame, coords(chunk), chunkIndex, coords(shard), shardIndex)
	return err
}

// extent formats an axis extent, where 0 marks an unbounded axis.
func extent(n uint64) string {
	if n == 0 {
		return "-"
	}
	return strconv.FormatUint(n, 10)
}

func coords(c []uint64) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
