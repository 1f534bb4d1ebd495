package scene

// NodeType distinguishes the three kinds of scene graph node.
type NodeType string

const (
	GroupNode     NodeType = "group"
	TransformNode NodeType = "transform"
	LeafNode      NodeType = "leaf"
)

// Vec3 is an (x, y, z) triple.
type Vec3 [3]float64

// Transform is a scale applied before a translation.
type Transform struct {
	Scale     Vec3 `json:"scale"`
	Translate Vec3 `json:"translate"`
}

func identityTransform() *Transform {
	return &Transform{Scale: Vec3{1, 1, 1}}
}

// Material holds the lighting coefficients of a leaf.
type Material struct {
	Ambient   Vec3    `json:"ambient"`
	Diffuse   Vec3    `json:"diffuse"`
	Specular  Vec3    `json:"specular"`
	Shininess float64 `json:"shininess"`
}

func defaultMaterial() *Material {
	return &Material{
		Ambient:   Vec3{0.4, 0.4, 0.4},
		Diffuse:   Vec3{0.8, 0.8, 0.8},
		Specular:  Vec3{0.8, 0.8, 0.8},
		Shininess: 1,
	}
}

// Node is one node of the scene graph. Which fields are set depends on Type:
// transforms carry Transform, leaves carry Instance and Material.
type Node struct {
	Name string   `json:"name"`
	Type NodeType `json:"type"`

	Transform *Transform `json:"transform,omitempty"`

	// Instance is the primitive a leaf draws, such as "box" or "sphere".
	Instance     string    `json:"instance,omitempty"`
	Material     *Material `json:"material,omitempty"`
	Texture      string    `json:"texture,omitempty"`
	TextureScale *Vec3     `json:"texture_scale,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Find returns the first node named name in a depth-first walk, or nil.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Transform != nil {
		t := *n.Transform
		c.Transform = &t
	}
	if n.Material != nil {
		m := *n.Material
		c.Material = &m
	}
	if n.TextureScale != nil {
		v := *n.TextureScale
		c.TextureScale = &v
	}
	c.Children = nil
	for _, child := range n.Children {
		c.Children = append(c.Children, child.clone())
	}
	return &c
}
