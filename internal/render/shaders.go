package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Screen quad vertex shader, shared by the background and the vignette.
const quadVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos; // 0..1 quad vertex

out vec2 vUV;

void main() {
    vUV = aPos;
    gl_Position = vec4(aPos * 2.0 - 1.0, 0.0, 1.0);
}
` + "\x00"

// Background: a 1xN gradient texture, row 0 at the top of the screen.
const skyFragSrc = `#version 410 core

uniform sampler2D uSky;

in vec2 vUV;
out vec4 FragColor;

void main() {
    FragColor = vec4(texture(uSky, vec2(0.5, 1.0 - vUV.y)).rgb, 1.0);
}
` + "\x00"

// Vignette darkens the edges and glows with the bass level.
const vignetteFragSrc = `#version 410 core

uniform float uGlow;
uniform vec2 uResolution;

in vec2 vUV;
out vec4 FragColor;

void main() {
    vec2 p = (vUV - 0.5) * vec2(uResolution.x / max(uResolution.y, 1.0), 1.0);
    float d = length(p);
    float edge = smoothstep(0.35, 0.95, d);
    vec3 tint = mix(vec3(0.0), vec3(0.55, 0.08, 0.35), uGlow);
    FragColor = vec4(tint, edge * (0.55 + 0.25 * uGlow));
}
` + "\x00"

// Mesh vertex shader: one model matrix per draw.
const meshVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorld;
out float vDepth;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vec4 eye = uView * world;
    vWorld = world.xyz;
    vDepth = -eye.z;
    gl_Position = uProj * eye;
}
` + "\x00"

// Instanced vertex shader: per-instance matrix in attributes 1..4, applied
// before the mesh transform.
const instancedVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in mat4 aInstance;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorld;
out float vDepth;

void main() {
    vec4 world = uModel * aInstance * vec4(aPos, 1.0);
    vec4 eye = uView * world;
    vWorld = world.xyz;
    vDepth = -eye.z;
    gl_Position = uProj * eye;
}
` + "\x00"

// Mesh fragment shader: flat normals from screen derivatives, ambient plus
// one point light, emissive term and exponential-squared fog.
const meshFragSrc = `#version 410 core

uniform vec3 uColor;
uniform vec3 uEmissive;
uniform float uOpacity;
uniform int uLit;
uniform int uFog;

uniform vec3 uAmbient;
uniform vec3 uLightPos;
uniform vec3 uLightColor;
uniform float uLightDistance;

uniform vec3 uFogColor;
uniform float uFogDensity;

in vec3 vWorld;
in float vDepth;
out vec4 FragColor;

void main() {
    vec3 col = uColor;
    if (uLit == 1) {
        vec3 n = normalize(cross(dFdx(vWorld), dFdy(vWorld)));
        vec3 toLight = uLightPos - vWorld;
        float d = length(toLight);
        float falloff = uLightDistance > 0.0 ? pow(clamp(1.0 - d / uLightDistance, 0.0, 1.0), 2.0) : 1.0;
        float diffuse = abs(dot(n, toLight / max(d, 1e-4)));
        col = uColor * (uAmbient + uLightColor * diffuse * falloff);
    }
    col += uEmissive;
    if (uFog == 1) {
        float f = 1.0 - exp(-uFogDensity * uFogDensity * vDepth * vDepth);
        col = mix(col, uFogColor, clamp(f, 0.0, 1.0));
    }
    FragColor = vec4(col, uOpacity);
}
` + "\x00"

// Points: round sprites sized in world units.
const pointsVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;

uniform mat4 uView;
uniform mat4 uProj;
uniform float uSize;
uniform float uScale; // viewport height / (2 * tan(fov / 2))

out float vDepth;

void main() {
    vec4 eye = uView * vec4(aPos, 1.0);
    vDepth = -eye.z;
    gl_PointSize = max(uSize * uScale / max(vDepth, 0.1), 1.0);
    gl_Position = uProj * eye;
}
` + "\x00"

const pointsFragSrc = `#version 410 core

uniform vec3 uColor;
uniform float uOpacity;
uniform vec3 uFogColor;
uniform float uFogDensity;

in float vDepth;
out vec4 FragColor;

void main() {
    float d = length(gl_PointCoord - 0.5);
    if (d > 0.5) discard;
    float a = uOpacity * (1.0 - smoothstep(0.25, 0.5, d));
    float f = 1.0 - exp(-uFogDensity * uFogDensity * vDepth * vDepth);
    FragColor = vec4(mix(uColor, uFogColor, clamp(f, 0.0, 1.0)), a);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
