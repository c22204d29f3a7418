package main

import (
	motion "github.com/WilliamChao/KinoMotion"
)

// box is a moving colored rectangle with its own depth layer.
type box struct {
	pos     motion.Vec2 // top-left corner
	size    motion.Vec2
	vel     motion.Vec2 // pixels per frame
	depth   float32
	r, g, b uint8
}

// scene is a synthetic FrameSource: a static checker background with a few
// boxes sliding over it at different depths and speeds. It regenerates the
// frame image and the per-pixel motion/depth planes on every advance.
type scene struct {
	w, h  int
	frame *motion.Pixmap
	boxes []box

	vx, vy, depth []float32
	id            uint64
}

func newScene(w, h int) *scene {
	fw, fh := float64(w), float64(h)
	return &scene{
		w:     w,
		h:     h,
		frame: motion.NewPixmap(w, h),
		boxes: []box{
			{pos: motion.V2(fw*0.1, fh*0.2), size: motion.V2(fw*0.12, fh*0.18), vel: motion.V2(14, 0), depth: 0.35, r: 230, g: 80, b: 60},
			{pos: motion.V2(fw*0.5, fh*0.55), size: motion.V2(fw*0.16, fh*0.2), vel: motion.V2(-9, 3), depth: 0.5, r: 70, g: 160, b: 235},
			{pos: motion.V2(fw*0.7, fh*0.15), size: motion.V2(fw*0.1, fh*0.25), vel: motion.V2(0, 11), depth: 0.65, r: 120, g: 220, b: 110},
		},
		vx:    make([]float32, w*h),
		vy:    make([]float32, w*h),
		depth: make([]float32, w*h),
	}
}

// advance moves the boxes one frame forward and rebuilds the color frame
// and the motion/depth planes.
func (s *scene) advance() {
	s.id++
	for i := range s.boxes {
		b := &s.boxes[i]
		b.pos = b.pos.Add(b.vel)
		// Wrap around the frame so long runs stay busy.
		if b.pos.X > float64(s.w) {
			b.pos.X = -b.size.X
		}
		if b.pos.X+b.size.X < 0 {
			b.pos.X = float64(s.w)
		}
		if b.pos.Y > float64(s.h) {
			b.pos.Y = -b.size.Y
		}
		if b.pos.Y+b.size.Y < 0 {
			b.pos.Y = float64(s.h)
		}
	}

	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			i := y*s.w + x

			// Background: checker at the far plane, static.
			var r, g, bl uint8 = 40, 40, 48
			if (x/32+y/32)%2 == 0 {
				r, g, bl = 72, 72, 84
			}
			s.vx[i], s.vy[i], s.depth[i] = 0, 0, 1

			for _, b := range s.boxes {
				if float64(x) >= b.pos.X && float64(x) < b.pos.X+b.size.X &&
					float64(y) >= b.pos.Y && float64(y) < b.pos.Y+b.size.Y &&
					b.depth < s.depth[i] {
					r, g, bl = b.r, b.g, b.b
					s.vx[i] = float32(b.vel.X)
					s.vy[i] = float32(b.vel.Y)
					s.depth[i] = b.depth
				}
			}
			s.frame.SetPixel(x, y, r, g, bl, 255)
		}
	}
}

// FrameInput implements motion.FrameSource.
func (s *scene) FrameInput(w, h int) (motion.MotionData, error) {
	return motion.MotionData{
		VelocityX: s.vx,
		VelocityY: s.vy,
		Depth:     s.depth,
	}, nil
}

// FrameID implements motion.FrameSource.
func (s *scene) FrameID() uint64 { return s.id }

// DeltaTime implements motion.FrameSource.
func (s *scene) DeltaTime() float64 { return 1.0 / 60 }
