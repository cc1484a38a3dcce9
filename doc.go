/*
Package evotri approximates an image with flat colored Delaunay triangles whose
vertices are placed by a (mu+lambda) evolutionary search.

A genome is a flat list of 2N integer coordinates. The codec clamps them into
the canvas, adds the four corners, triangulates the set and fills every
triangle with the reference color found under its centroid. Fitness is the mean
squared RGB error per pixel, lower being better.

The package also ships a single point local search used as a baseline.

Example of running the evolutionary engine and saving the best individual:

	package main

	import (
		"context"
		"image/png"
		"os"

		"github.com/evotri/evotri"
	)

	func main() {
		ref, err := evotri.NewReference(srcImg, evotri.DefaultRefOptions())
		if err != nil {
			panic(err)
		}
		cfg := evotri.DefaultConfig()
		cfg.VertexCount = 200

		engine, err := evotri.NewEngine(ref, cfg)
		if err != nil {
			panic(err)
		}
		res, err := engine.Run(context.Background(), evotri.RunOptions{})
		if err != nil {
			panic(err)
		}
		img, _ := evotri.Decode(res.Population.Best().Genome, ref)
		f, _ := os.Create("out.png")
		defer f.Close()
		png.Encode(f, img)
	}

Example of stopping a run from another goroutine:

	stop := new(evotri.StopFlag)
	go func() {
		<-userQuit
		stop.Stop() // the current generation still completes
	}()
	res, err := engine.Run(ctx, evotri.RunOptions{Stop: stop})
*/
package evotri
