package variant

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/Carmen-Shannon/oxy-mesh/engine/contract"
	"github.com/Carmen-Shannon/oxy-mesh/engine/renderer/shader"
	"github.com/gogpu/naga"
)

// Variant is one built specialization of the mesh template.
type Variant struct {
	// Flags are the function constants the variant was built with.
	Flags contract.FunctionConstantSet

	// Vertex is the processed vertex stage.
	Vertex shader.Shader

	// Fragment is the processed fragment stage.
	Fragment shader.Shader

	// SPIRV is the compiled module, nil when validation is disabled.
	SPIRV []uint32
}

// compiler is the implementation of the Compiler interface.
type compiler struct {
	mu       sync.Mutex
	policy   contract.QualityPolicy
	source   string
	label    string
	workers  int
	validate bool
	cache    map[contract.FunctionConstantSet]*Variant
}

// Compiler builds and caches mesh shader variants. Tiers that resolve to the same flags
// share one cached variant. Safe for concurrent use.
type Compiler interface {
	// Select returns the key for a draw under the compiler's policy.
	//
	// Parameters:
	//   - q: the draw's quality tier
	//   - available: the maps the material provides
	//
	// Returns:
	//   - Key: the selected variant
	Select(q contract.QualityLevel, available contract.FunctionConstantSet) Key

	// Compile returns the variant for key, building it on first use. Building expands the
	// template with the key's flags, checks both stages against the host interface and,
	// when validation is on, checks naga's struct layouts against the host structs and
	// compiles the module to SPIR-V.
	//
	// Parameters:
	//   - key: the variant to build
	//
	// Returns:
	//   - *Variant: the cached or freshly built variant
	//   - error: a pre-processor, interface or compiler error
	Compile(key Key) (*Variant, error)

	// PrecompileAll builds the variant of every tier for the given available maps on a
	// worker pool. It returns when all builds finish or ctx is done, whichever is first;
	// builds already submitted keep running and still populate the cache.
	//
	// Parameters:
	//   - ctx: cancels the wait
	//   - available: the maps the material provides
	//
	// Returns:
	//   - error: ctx.Err() on cancellation, otherwise the joined build errors
	PrecompileAll(ctx context.Context, available contract.FunctionConstantSet) error

	// Cached returns the number of variants built so far.
	Cached() int
}

var _ Compiler = &compiler{}

// NewCompiler creates a Compiler for the mesh template under the host's policy.
//
// Parameters:
//   - policy: the host's tier → switch policy, must not be nil
//   - options: functional options applied in order
//
// Returns:
//   - Compiler: the configured compiler
func NewCompiler(policy contract.QualityPolicy, options ...CompilerBuilderOption) Compiler {
	if policy == nil {
		panic("variant: NewCompiler requires a quality policy")
	}
	c := &compiler{
		policy:   policy,
		source:   shader.MeshSource,
		label:    "mesh",
		workers:  runtime.NumCPU(),
		validate: true,
		cache:    make(map[contract.FunctionConstantSet]*Variant),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *compiler) Select(q contract.QualityLevel, available contract.FunctionConstantSet) Key {
	return Select(c.policy, q, available)
}

func (c *compiler) Compile(key Key) (*Variant, error) {
	c.mu.Lock()
	v, ok := c.cache[key.Flags]
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	start := time.Now()
	v, err := c.build(key.Flags)
	if err != nil {
		common.LogError("variant build failed", "key", key, "err", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.cache[key.Flags]; ok {
		return existing, nil
	}
	c.cache[key.Flags] = v
	common.LogDebug("variant built", "key", key, "words", len(v.SPIRV), "took", time.Since(start))
	return v, nil
}

func (c *compiler) build(flags contract.FunctionConstantSet) (*Variant, error) {
	name := c.label + "/" + flags.String()
	vs, err := shader.NewShader(name+"/vertex", shader.ShaderTypeVertex, c.source, shader.WithFlags(flags))
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(name+"/fragment", shader.ShaderTypeFragment, c.source, shader.WithFlags(flags))
	if err != nil {
		return nil, err
	}
	if err := shader.CheckInterface(vs); err != nil {
		return nil, err
	}
	if err := shader.CheckInterface(fs); err != nil {
		return nil, err
	}

	v := &Variant{Flags: flags, Vertex: vs, Fragment: fs}
	if !c.validate {
		return v, nil
	}
	if err := shader.CheckCompiledLayouts(vs); err != nil {
		return nil, fmt.Errorf("variant %s: %w", name, err)
	}
	spirv, err := naga.Compile(vs.Source())
	if err != nil {
		return nil, fmt.Errorf("variant %s: compile: %w", name, err)
	}
	v.SPIRV = spirvWords(spirv)
	return v, nil
}

// spirvWords reinterprets little-endian SPIR-V bytes as 32-bit words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

func (c *compiler) PrecompileAll(ctx context.Context, available contract.FunctionConstantSet) error {
	keys := make(map[contract.FunctionConstantSet]Key)
	for _, q := range contract.QualityLevelValues() {
		k := c.Select(q, available)
		if _, dup := keys[k.Flags]; !dup {
			keys[k.Flags] = k
		}
	}

	pool := worker.NewDynamicWorkerPool(min(c.workers, len(keys)), len(keys), time.Second)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	id := 0
	for _, k := range keys {
		wg.Add(1)
		key := k
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				_, err := c.Compile(key)
				if err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("%s: %w", key, err))
					mu.Unlock()
				}
				return nil, err
			},
		})
		id++
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}
	// Builds skip once ctx is done, so a cancelled run is incomplete even if every task returned.
	if err := ctx.Err(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(errs...)
}

func (c *compiler) Cached() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
