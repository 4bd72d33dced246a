package editor

import (
	"slices"

	"render-backend/scene"
)

// Command is an undoable editor action.
type Command interface {
	Execute()
	Undo()
	Description() string
}

// History holds bounded undo and redo stacks.
type History struct {
	undoStack []Command
	redoStack []Command
	maxDepth  int
}

func NewHistory(maxDepth int) *History {
	return &History{maxDepth: maxDepth}
}

// Do executes cmd and makes it undoable. Redo history is discarded.
func (h *History) Do(cmd Command) {
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = h.redoStack[:0]
}

func (h *History) Undo() (Command, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	cmd.Undo()
	h.redoStack = append(h.redoStack, cmd)
	return cmd, true
}

func (h *History) Redo() (Command, bool) {
	if len(h.redoStack) == 0 {
		return nil, false
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	return cmd, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// HideCommand hides nodes, restoring their previous visibility on undo.
type HideCommand struct {
	nodes []*scene.Node
	prev  []bool
}

func NewHideCommand(nodes []*scene.Node) *HideCommand {
	c := &HideCommand{nodes: slices.Clone(nodes), prev: make([]bool, len(nodes))}
	for i, n := range nodes {
		c.prev[i] = n.Visible
	}
	return c
}

func (c *HideCommand) Execute() {
	for _, n := range c.nodes {
		n.Visible = false
	}
}

func (c *HideCommand) Undo() {
	for i, n := range c.nodes {
		n.Visible = c.prev[i]
	}
}

func (c *HideCommand) Description() string { return "Hide" }

// DeleteNodeCommand detaches a node from its parent.
type DeleteNodeCommand struct {
	node   *scene.Node
	parent *scene.Node
}

func NewDeleteNodeCommand(node *scene.Node) *DeleteNodeCommand {
	return &DeleteNodeCommand{node: node, parent: node.Parent}
}

func (c *DeleteNodeCommand) Execute() {
	if c.parent != nil {
		c.parent.RemoveChild(c.node)
	}
}

func (c *DeleteNodeCommand) Undo() {
	if c.parent != nil {
		c.parent.AddChild(c.node)
	}
}

func (c *DeleteNodeCommand) Description() string { return "Delete " + c.node.Name }

// AssignShaderCommand changes the shader a node is drawn with.
type AssignShaderCommand struct {
	node       *scene.Node
	prev, next string
}

func NewAssignShaderCommand(node *scene.Node, shader string) *AssignShaderCommand {
	return &AssignShaderCommand{node: node, prev: node.Shader, next: shader}
}

func (c *AssignShaderCommand) Execute()            { c.node.Shader = c.next }
func (c *AssignShaderCommand) Undo()               { c.node.Shader = c.prev }
func (c *AssignShaderCommand) Description() string { return "Assign " + c.next + " to " + c.node.Name }

// ColourCommand sets a node's entity colour (parm0..parm3).
type ColourCommand struct {
	node       *scene.Node
	prev, next [4]float32
}

func NewColourCommand(node *scene.Node, r, g, b, a float32) *ColourCommand {
	return &ColourCommand{
		node: node,
		prev: [4]float32{node.Parms[0], node.Parms[1], node.Parms[2], node.Parms[3]},
		next: [4]float32{r, g, b, a},
	}
}

func (c *ColourCommand) Execute() { c.node.SetColour(c.next[0], c.next[1], c.next[2], c.next[3]) }
func (c *ColourCommand) Undo()    { c.node.SetColour(c.prev[0], c.prev[1], c.prev[2], c.prev[3]) }

func (c *ColourCommand) Description() string { return "Colour " + c.node.Name }
