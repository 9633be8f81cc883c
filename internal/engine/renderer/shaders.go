package renderer

const matcapVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModelView;
uniform mat4 uProjection;
uniform mat3 uNormalMatrix;

out vec3 vNormal;
out vec3 vViewPos;

void main() {
	vec4 viewPos = uModelView * vec4(aPos, 1.0);
	vViewPos = viewPos.xyz;
	vNormal = normalize(uNormalMatrix * aNormal);
	gl_Position = uProjection * viewPos;
}
`

// The matcap lookup uses the view-space reflection so the sphere lighting
// stays stable when the model moves across the screen.
const matcapFragment = `
#version 410 core

in vec3 vNormal;
in vec3 vViewPos;

uniform sampler2D uMatcap;
uniform vec3 uColor;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}
	vec3 v = normalize(vViewPos);
	vec3 x = normalize(vec3(v.z, 0.0, -v.x));
	vec3 y = cross(v, x);
	vec2 uv = vec2(dot(x, n), dot(y, n)) * 0.495 + 0.5;
	FragColor = vec4(texture(uMatcap, uv).rgb * uColor, 1.0);
}
`

const lineVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform mat4 uViewProjection;

out vec3 vColor;

void main() {
	vColor = aColor;
	gl_Position = uViewProjection * vec4(aPos, 1.0);
}
`

const lineFragment = `
#version 410 core

in vec3 vColor;
out vec4 FragColor;

void main() {
	FragColor = vec4(vColor, 1.0);
}
`
