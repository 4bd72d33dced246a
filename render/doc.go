// Package render compiles materials into sorted OpenGL render passes and
// drives their per-frame submission.
//
// A Shader is captured by name from a Registry. Realising it runs the pass
// compiler: built-in literal names ("(r g b)", "[r g b]", "<r g b>", "$NAME")
// map to fixed passes, anything else is looked up in the material provider
// and decomposed into depth-fill, interaction and blend passes. Every pass
// owns an OpenGLState whose SortPosition places it in the registry's global
// order. Each frame, renderables are queued on shaders with AddRenderable,
// then Registry.Render walks the passes in sort order, applying only the GL
// state that differs from the previous pass, and empties the queues.
//
// Everything here runs on the render thread. Nothing is locked.
package render
