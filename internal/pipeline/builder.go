package pipeline

// Builder provides a fluent interface for building pipelines.
type Builder struct {
	config Config
}

// NewBuilder creates a new pipeline builder.
func NewBuilder() *Builder {
	return &Builder{
		config: Config{
			BufferSize: 1024, // default
		},
	}
}

// WithSource sets the capture source.
func (b *Builder) WithSource(s Source) *Builder {
	b.config.Source = s
	return b
}

// WithFilter sets the frame filter.
func (b *Builder) WithFilter(f Filter) *Builder {
	b.config.Filter = f
	return b
}

// WithSink sets the output sink.
func (b *Builder) WithSink(s Sink) *Builder {
	b.config.Sink = s
	return b
}

// WithCount stops the pipeline after n printed frames.
func (b *Builder) WithCount(n int) *Builder {
	b.config.Count = n
	return b
}

// WithBufferSize sets the record channel buffer size.
func (b *Builder) WithBufferSize(size int) *Builder {
	b.config.BufferSize = size
	return b
}

// Build creates the pipeline.
func (b *Builder) Build() *Pipeline {
	return New(b.config)
}
