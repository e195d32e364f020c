package capture

import "image"

// grayscaleCrop converts the w x h sub-rectangle of src starting at the
// local offset (x0, y0) into dst. Luma uses the BT.601 weights
// 0.299 R + 0.587 G + 0.114 B in the fixed-point form (77R+150G+29B)>>8.
// The caller guarantees the range lies within src and dst is w x h.
func grayscaleCrop(src *image.RGBA, x0, y0, w, h int, dst *FrameBuffer) {
	b := src.Bounds()
	idx := 0
	for i := 0; i < h; i++ {
		off := src.PixOffset(b.Min.X+x0, b.Min.Y+y0+i)
		row := src.Pix[off : off+w*4]
		for j := 0; j < w; j++ {
			p := j * 4
			r, g, bl := uint32(row[p]), uint32(row[p+1]), uint32(row[p+2])
			dst.Pix[idx] = uint8((77*r + 150*g + 29*bl) >> 8)
			idx++
		}
	}
}
