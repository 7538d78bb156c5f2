package character

import (
	"log/slog"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/assert"
	"github.com/oomph-ac/kinematic/collision"
)

// Context is the state shared by the phases of one actor update. A context must not be shared
// between goroutines; every parallel update takes its own from NewContext.
type Context struct {
	World     collision.World
	Processor Processor
	DeltaTime float32
	Gravity   mgl32.Vec3
	Log       *slog.Logger

	// Report describes the last MoveWithCollisions call.
	Report MoveReport

	castHits     []collision.Hit
	rayHits      []collision.Hit
	distanceHits []collision.Hit
	groundHits   []collision.Hit

	processedBodies *orderedmap.OrderedMap[collision.BodyID, struct{}]
	statefulIndex   *orderedmap.OrderedMap[collision.BodyID, int]
}

var ctxPool = sync.Pool{
	New: func() any {
		return &Context{
			castHits:        make([]collision.Hit, 0, 16),
			rayHits:         make([]collision.Hit, 0, 8),
			distanceHits:    make([]collision.Hit, 0, 16),
			groundHits:      make([]collision.Hit, 0, 16),
			processedBodies: orderedmap.NewOrderedMap[collision.BodyID, struct{}](),
			statefulIndex:   orderedmap.NewOrderedMap[collision.BodyID, int](),
		}
	},
}

// NewContext takes a context from the pool. A nil processor uses DefaultProcessor and a nil
// logger discards output. Release must be called once the update is done.
func NewContext(world collision.World, processor Processor, dt float32, gravity mgl32.Vec3, log *slog.Logger) *Context {
	assert.IsTrue(world != nil, "context created without a world")
	ctx := ctxPool.Get().(*Context)
	ctx.World = world
	ctx.Processor = processor
	if ctx.Processor == nil {
		ctx.Processor = DefaultProcessor{}
	}
	ctx.DeltaTime = dt
	ctx.Gravity = gravity
	ctx.Log = log
	if ctx.Log == nil {
		ctx.Log = slog.New(slog.DiscardHandler)
	}
	return ctx
}

// Release returns the context to the pool.
func (ctx *Context) Release() {
	ctx.reset()
	ctxPool.Put(ctx)
}

func (ctx *Context) reset() {
	ctx.World = nil
	ctx.Processor = nil
	ctx.DeltaTime = 0
	ctx.Gravity = mgl32.Vec3{}
	ctx.Log = nil
	ctx.Report.reset()
	ctx.castHits = ctx.castHits[:0]
	ctx.rayHits = ctx.rayHits[:0]
	ctx.distanceHits = ctx.distanceHits[:0]
	ctx.groundHits = ctx.groundHits[:0]
	clearMap(ctx.processedBodies)
	clearMap(ctx.statefulIndex)
}

func clearMap[K comparable, V any](m *orderedmap.OrderedMap[K, V]) {
	for el := m.Front(); el != nil; el = m.Front() {
		m.Delete(el.Key)
	}
}

// MoveReport accounts for the distance handled by a MoveWithCollisions call. Intended equals the
// sum of Advanced, ProjectedAway, SteppedOver and Leftover.
type MoveReport struct {
	Intended float32
	// Advanced is the distance moved in each iteration.
	Advanced []float32
	// ProjectedAway is the distance removed by velocity projections shortening the movement.
	ProjectedAway float32
	// SteppedOver is the distance consumed by step ups.
	SteppedOver float32
	SteppedUp   bool
	// Leftover is the distance left when the iteration cap was reached and the movement discarded.
	Leftover   float32
	Iterations int
}

// TotalAdvanced ...
func (r *MoveReport) TotalAdvanced() (total float32) {
	for _, d := range r.Advanced {
		total += d
	}
	return total
}

func (r *MoveReport) reset() {
	advanced := r.Advanced[:0]
	*r = MoveReport{Advanced: advanced}
}
