package prompt

// Styles is the fixed table of standalone visual-style prompts, used when
// generating channel art that is not tied to a specific track description.
var Styles = map[string]string{
	"nostalgic": "Nostalgic South African township at golden hour, " +
		"children playing in distance, warm analog film grain, " +
		"mellow sunset colors, soft purple and orange hues, " +
		"vintage aesthetic, amapiano vibe, dreamy atmosphere, 4K",

	"neon_city": "South African city skyline at night, neon lights, " +
		"amapiano vibe, purple and cyan colors, " +
		"futuristic African aesthetic, 4K",

	"abstract": "Abstract African geometric patterns, " +
		"vibrant colors, music visualization style, " +
		"dynamic flowing shapes, modern tribal art, 4K",

	"club": "Underground club scene, DJ booth, " +
		"colored lighting, crowd silhouettes, " +
		"amapiano party atmosphere, 4K",

	"nature": "African savanna at sunset, " +
		"silhouette of acacia trees, warm golden light, " +
		"peaceful atmosphere, cinematic composition, 4K",
}

// Style returns the named style prompt, falling back to "nostalgic".
func Style(name string) string {
	if p, ok := Styles[name]; ok {
		return p
	}
	return Styles["nostalgic"]
}
