package capture

import "sync"

// Reusable frame pool to reduce heap churn from the per-sample grayscale
// buffers the detection loop allocates. Consumers call RecycleFrame when
// they are done with a frame; if they never do, behaviour degrades
// gracefully to plain allocation.

var framePool sync.Pool // stores *FrameBuffer

// acquireFrame returns a FrameBuffer sized to w x h. Pix length exactly
// matches w*h; contents are undefined until written.
func acquireFrame(w, h int) *FrameBuffer {
	if w <= 0 || h <= 0 {
		return &FrameBuffer{W: w, H: h}
	}
	needed := w * h
	var f *FrameBuffer
	if v := framePool.Get(); v != nil {
		f = v.(*FrameBuffer)
	}
	if f == nil || cap(f.Pix) < needed {
		return &FrameBuffer{W: w, H: h, Pix: make([]uint8, needed)}
	}
	f.W, f.H = w, h
	f.Pix = f.Pix[:needed]
	return f
}

// RecycleFrame returns the frame to the pool for potential reuse. The
// frame must no longer be accessed by the caller afterwards.
func RecycleFrame(f *FrameBuffer) {
	if f == nil || f.Pix == nil {
		return
	}
	framePool.Put(f)
}
