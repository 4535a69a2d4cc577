package storage

import (
	"fmt"

	"github.com/robert-malhotra/go-acquire-storage/internal/alloc"
)

// PixelScale is the physical size of a pixel, in microns.
type PixelScale struct {
	X, Y float64
}

// StorageProperties describes how an acquisition stream is written to
// storage.
//
// The zero value is ready to use and draws string storage from the default
// allocator. Owned strings are released by Destroy; a StorageProperties must
// not be copied by value once populated, use Copy instead. A value is meant to
// be manipulated by one owner at a time.
type StorageProperties struct {
	Filename             String
	ExternalMetadataJSON String // Opaque bytes passed through to the writer
	FirstFrameID         uint32 // Reserved for file rollover
	PixelScaleUM         PixelScale
	Dimensions           Dimensions
	AppendDimension      int // Index into Dimensions that frames extend along
	EnableMultiscale     bool

	alloc *alloc.Allocator
}

// New returns zero-valued properties configured by opts.
func New(opts ...Option) *StorageProperties {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	p := &StorageProperties{alloc: o.allocator}
	if p.alloc == nil && o.byteLimit > 0 {
		p.alloc = alloc.New(o.byteLimit)
	}
	p.Dimensions.alloc = p.alloc
	p.Dimensions.limit = o.maxDimensions
	return p
}

func (p *StorageProperties) allocator() *alloc.Allocator {
	if p.alloc != nil {
		return p.alloc
	}
	return alloc.Default()
}

// LiveBytes returns the bytes of string storage currently held through this
// value's allocator. With the default allocator the figure is process wide.
func (p *StorageProperties) LiveBytes() uint64 {
	return p.allocator().Live()
}

// ByteLimit returns the live-byte limit of p's private allocator, or 0 when
// p draws from the unlimited default.
func (p *StorageProperties) ByteLimit() uint64 {
	if p.alloc == nil {
		return 0
	}
	return p.alloc.Limit()
}

// Init resets p and sets its filename, metadata, first frame id and pixel
// scale. filename and metadata are copied; their lengths should include the
// terminating NUL. Anything p owned before is released; options given to New
// are kept. On failure p may be partially set and must still be destroyed.
func (p *StorageProperties) Init(firstFrameID uint32, filename, metadata []byte, pixelScaleUM PixelScale) error {
	p.Destroy()
	a, limit := p.alloc, p.Dimensions.limit
	*p = StorageProperties{alloc: a}
	p.Dimensions.alloc = a
	p.Dimensions.limit = limit

	if err := p.SetFilename(filename); err != nil {
		return err
	}
	if err := p.SetExternalMetadata(metadata); err != nil {
		return err
	}
	p.FirstFrameID = firstFrameID
	p.PixelScaleUM = pixelScaleUM
	return nil
}

// SetFilename copies filename into storage owned by p.
func (p *StorageProperties) SetFilename(filename []byte) error {
	return p.Filename.set(p.allocator(), filename)
}

// SetExternalMetadata copies metadata into storage owned by p.
func (p *StorageProperties) SetExternalMetadata(metadata []byte) error {
	return p.ExternalMetadataJSON.set(p.allocator(), metadata)
}

// Copy makes p a deep copy of src. Buffers p already owns are reused where
// they are large enough. On failure p is partially updated but every string
// in it is still validly owned or borrowed.
func (p *StorageProperties) Copy(src *StorageProperties) error {
	if p == src {
		return nil
	}

	p.FirstFrameID = src.FirstFrameID
	p.PixelScaleUM = src.PixelScaleUM
	p.AppendDimension = src.AppendDimension
	p.EnableMultiscale = src.EnableMultiscale

	if err := p.Filename.set(p.allocator(), src.Filename.Bytes()); err != nil {
		return err
	}
	if err := p.ExternalMetadataJSON.set(p.allocator(), src.ExternalMetadataJSON.Bytes()); err != nil {
		return err
	}
	return p.Dimensions.CopyFrom(&src.Dimensions)
}

// SetAppendDimension selects the dimension frames are appended along. The
// first two dimensions hold the frame itself and cannot be chosen.
func (p *StorageProperties) SetAppendDimension(index int) error {
	if index <= 1 || index >= p.Dimensions.Count() {
		return fail(componentProperties, CodePropertiesAppendInvalid, ErrInvalidArgument,
			fmt.Sprintf("append dimension %d is outside [2, %d)", index, p.Dimensions.Count()),
			"index", index, "count", p.Dimensions.Count())
	}
	p.AppendDimension = index
	return nil
}

// SetEnableMultiscale turns multiscale pyramid output on or off.
func (p *StorageProperties) SetEnableMultiscale(enable bool) {
	p.EnableMultiscale = enable
}

// Destroy releases every owned string, including dimension names. It never
// fails and is safe to call more than once.
func (p *StorageProperties) Destroy() {
	p.Filename.Destroy()
	p.ExternalMetadataJSON.Destroy()
	p.Dimensions.Destroy()
}
