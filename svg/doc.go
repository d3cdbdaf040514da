// Package svg reads SVG documents into the elements consumed by the
// signkit conversion pipeline.
//
// The reader flattens the document: group transforms are applied to the
// geometry, basic shapes become path commands, and fills are collected
// from attributes, inline styles and <style> sheets so that background
// detection can inspect each source separately.
//
//	doc, err := svg.Read(f)
//	if err != nil {
//		return err
//	}
//	bundle, err := conv.ConvertArt(doc.Art(), req)
//
// Width and height in absolute units (mm, cm, in, pt, pc) mark the
// document as physical; the viewBox is then mapped onto millimetres and
// the converter places the art without scaling it.
package svg
